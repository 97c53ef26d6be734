package schema

import (
	"strings"
)

// Step is one element of a schema path, with its raw prefix if any.
type Step struct {
	Prefix string
	Name   string
}

// Path is a parsed schema or leafref path. Predicates are stripped during
// parsing; only the node steps matter for schema resolution.
type Path struct {
	Absolute bool
	Up       int
	Steps    []Step
}

// Empty reports whether the path has no steps and no direction.
func (p Path) Empty() bool {
	return !p.Absolute && p.Up == 0 && len(p.Steps) == 0
}

func (p Path) copy() Path {
	if len(p.Steps) == 0 {
		return p
	}
	c := p
	c.Steps = append([]Step(nil), p.Steps...)
	return c
}

func (p Path) String() string {
	var sb strings.Builder
	if p.Absolute {
		sb.WriteByte('/')
	}
	for i := 0; i < p.Up; i++ {
		sb.WriteString("../")
	}
	for i, s := range p.Steps {
		if i > 0 {
			sb.WriteByte('/')
		}
		if s.Prefix != "" {
			sb.WriteString(s.Prefix)
			sb.WriteByte(':')
		}
		sb.WriteString(s.Name)
	}
	return sb.String()
}

// ParsePath parses an augment/deviation target or leafref path expression.
// Key predicates ("[k = current()/../x]") are dropped; relative paths record
// their leading "../" count.
func ParsePath(s string) (Path, error) {
	s = strings.TrimSpace(s)
	s, err := stripPredicates(s)
	if err != nil {
		return Path{}, err
	}
	var p Path
	if strings.HasPrefix(s, "/") {
		p.Absolute = true
		s = s[1:]
	}
	for strings.HasPrefix(s, "../") {
		p.Up++
		s = s[3:]
	}
	if s == "" {
		if !p.Absolute && p.Up == 0 {
			return Path{}, moduleErrf("empty path")
		}
		return p, nil
	}
	for _, raw := range strings.Split(s, "/") {
		raw = strings.TrimSpace(raw)
		if raw == "" || raw == "." {
			continue
		}
		if raw == ".." {
			// interior ".." only occur in leafref predicates, which are
			// stripped; a surviving one means a malformed path
			return Path{}, moduleErrf("misplaced '..' in path %q", s)
		}
		var st Step
		if pre, name, ok := strings.Cut(raw, ":"); ok {
			st = Step{Prefix: pre, Name: name}
		} else {
			st = Step{Name: raw}
		}
		p.Steps = append(p.Steps, st)
	}
	if len(p.Steps) == 0 {
		return Path{}, moduleErrf("empty path %q", s)
	}
	return p, nil
}

// stripPredicates removes bracketed key predicates before the path is split
// into steps. Predicates may themselves contain slashes, as in
// "iface[name = current()/../ifname]/mtu".
func stripPredicates(s string) (string, error) {
	if !strings.Contains(s, "[") {
		if strings.Contains(s, "]") {
			return "", moduleErrf("unbalanced ']' in path %q", s)
		}
		return s, nil
	}
	var sb strings.Builder
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return "", moduleErrf("unbalanced ']' in path %q", s)
			}
			depth--
		default:
			if depth == 0 {
				sb.WriteByte(s[i])
			}
		}
	}
	if depth != 0 {
		return "", moduleErrf("unterminated predicate in path %q", s)
	}
	return sb.String(), nil
}
