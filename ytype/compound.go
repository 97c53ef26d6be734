package ytype

import (
	"fmt"
	"strings"

	"github.com/nokia/yangc/ident"
)

// EnumItem is one member of an enumeration.
type EnumItem struct {
	Name  string
	Value int32
}

// Enum is the YANG enumeration builtin.
type Enum struct {
	Items []EnumItem
}

func (t Enum) WireName() string { return "enumeration" }

func (t Enum) item(name string) (EnumItem, bool) {
	for _, it := range t.Items {
		if it.Name == name {
			return it, true
		}
	}
	return EnumItem{}, false
}

func (t Enum) ToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		if _, ok := t.item(x); ok {
			return x, nil
		}
	case int, int32, int64:
		// historical integral coercion: encode by member value
		var n int64
		switch y := x.(type) {
		case int:
			n = int64(y)
		case int32:
			n = int64(y)
		case int64:
			n = y
		}
		for _, it := range t.Items {
			if int64(it.Value) == n {
				return it.Name, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %v", ErrEnumMember, v)
}

func (t Enum) ToValue(s string) (any, error) {
	if _, ok := t.item(s); !ok {
		return nil, fmt.Errorf("%w: %q", ErrEnumMember, s)
	}
	return s, nil
}

func (t Enum) CheckValue(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	_, ok = t.item(s)
	return ok
}

// BitItem is one member of a bit set.
type BitItem struct {
	Name string
	Pos  uint32
}

// Bits is the YANG bits builtin; wire text is space-separated member names.
type Bits struct {
	Items []BitItem
}

func (t Bits) WireName() string { return "bits" }

func (t Bits) has(name string) bool {
	for _, it := range t.Items {
		if it.Name == name {
			return true
		}
	}
	return false
}

func (t Bits) ToString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		if t.CheckValue(x) {
			return x, nil
		}
	case []string:
		for _, n := range x {
			if !t.has(n) {
				return "", fmt.Errorf("%w: %q", ErrBitMember, n)
			}
		}
		return strings.Join(x, " "), nil
	}
	return "", BadValueErr("bits", v)
}

func (t Bits) ToValue(s string) (any, error) {
	if !t.CheckValue(s) {
		return nil, BadValueErr("bits", s)
	}
	return s, nil
}

func (t Bits) CheckValue(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	for _, n := range strings.Fields(s) {
		if !t.has(n) {
			return false
		}
	}
	return true
}

// IdentityRef carries the declared base identities and, after derivation
// closure, the set of legal (derived) identity names.
type IdentityRef struct {
	Bases  []ident.Ident
	Values []string
}

func (t IdentityRef) WireName() string { return "identityref" }

func (t IdentityRef) accepts(s string) bool {
	for _, v := range t.Values {
		if v == s {
			return true
		}
		// a bare name matches a qualified legal value
		if i := strings.IndexByte(v, ':'); i >= 0 && v[i+1:] == s {
			return true
		}
	}
	return false
}

func (t IdentityRef) ToString(v any) (string, error) {
	s, ok := v.(string)
	if !ok || !t.accepts(s) {
		return "", BadValueErr("identityref", v)
	}
	return s, nil
}

func (t IdentityRef) ToValue(s string) (any, error) {
	if !t.accepts(s) {
		return nil, BadValueErr("identityref", s)
	}
	return s, nil
}

func (t IdentityRef) CheckValue(v any) bool {
	s, ok := v.(string)
	return ok && t.accepts(s)
}

// LeafRef is the placeholder for a leafref type before path resolution.
// Using it as a value type is a programming error, not a user error.
type LeafRef struct {
	Path string
}

func (t LeafRef) WireName() string { return "leafref" }

func (t LeafRef) ToString(any) (string, error) {
	return "", fmt.Errorf("%w: leafref %q not substituted", ErrInternal, t.Path)
}

func (t LeafRef) ToValue(string) (any, error) {
	return nil, fmt.Errorf("%w: leafref %q not substituted", ErrInternal, t.Path)
}

func (t LeafRef) CheckValue(any) bool { return false }

// Union holds a deduplicated ordered sequence of member types.
type Union struct {
	Members []Type
}

func (t Union) WireName() string { return "union" }

func (t Union) ToString(v any) (string, error) {
	for _, m := range t.Members {
		if s, err := m.ToString(v); err == nil {
			return s, nil
		}
	}
	return "", BadValueErr("union", v)
}

func (t Union) ToValue(s string) (any, error) {
	for _, m := range t.Members {
		if v, err := m.ToValue(s); err == nil {
			return v, nil
		}
	}
	return nil, BadValueErr("union", s)
}

func (t Union) CheckValue(v any) bool {
	for _, m := range t.Members {
		if m.CheckValue(v) {
			return true
		}
	}
	return false
}

// Unresolved is the placeholder for a named typedef reference, carrying any
// use-site refinements to merge over the definition once found.
type Unresolved struct {
	Ref    ident.Ident
	Refine Refinement
}

func (t Unresolved) WireName() string { return t.Ref.String() }

func (t Unresolved) ToString(any) (string, error) {
	return "", fmt.Errorf("%w: %s", ErrUnresolved, t.Ref)
}

func (t Unresolved) ToValue(string) (any, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnresolved, t.Ref)
}

func (t Unresolved) CheckValue(any) bool { return false }
