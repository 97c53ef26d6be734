package schema

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nokia/yangc/ytype"
)

// replayAll interprets every node's recorded instructions now that the tree
// has its final shape. Instructions replay in order, so a deviation-added
// attribute appended after the original one wins.
func (ms *ModuleSet) replayAll() error {
	return ms.root.Walk(func(n *Node) error {
		return ms.replay(n)
	})
}

func (ms *ModuleSet) replay(n *Node) error {
	for _, sp := range spans(n.Blueprint) {
		head := n.Blueprint[sp[0]]
		body := n.Blueprint[sp[0]+1 : sp[1]]
		switch head.Keyword {
		case "type":
			t, err := ms.buildType(n, head.Arg, body)
			if err != nil {
				return err
			}
			n.Type = t
		case "default":
			n.Default = head.Arg
		case "units":
			n.Units = head.Arg
		case "namespace":
			n.Namespace = head.Arg
		case "prefix":
			n.Prefix = head.Arg
		case "presence":
			n.Presence = true
		case "config":
			switch head.Arg {
			case "true":
				v := true
				n.Config = &v
			case "false":
				v := false
				n.Config = &v
			default:
				return fmt.Errorf("%w: %q at %s", ErrBadConfigArg, head.Arg, n.Path())
			}
		case "mandatory":
			n.Mandatory = head.Arg == "true"
		case "status":
			n.Status = head.Arg
		case "key":
			n.Keys = strings.Fields(head.Arg)
		case "ordered-by":
			n.UserOrdered = head.Arg == "user"
		case "revision":
			if n.Revision == "" {
				n.Revision = head.Arg
			}
		case "base":
			id, err := ms.refIdent(n, head.Arg)
			if err != nil {
				return err
			}
			n.Bases = append(n.Bases, id)
		}
	}
	return nil
}

// buildType interprets one type span into a value type. Unknown names become
// unresolved references carrying the use-site refinement; unions recurse into
// their member type spans.
func (ms *ModuleSet) buildType(n *Node, name string, body []Instr) (ytype.Type, error) {
	var r ytype.Refinement
	var members []ytype.Type
	var bases []string
	nextEnum := int32(0)
	nextBit := uint32(0)
	for _, sp := range spans(body) {
		head := body[sp[0]]
		inner := body[sp[0]+1 : sp[1]]
		switch head.Keyword {
		case "range":
			r.Range = head.Arg
		case "length":
			r.Length = head.Arg
		case "fraction-digits":
			fd, err := strconv.ParseUint(head.Arg, 10, 8)
			if err != nil {
				return nil, moduleErrf("bad fraction-digits %q at %s", head.Arg, n.Path())
			}
			r.FractionDigits = uint(fd)
		case "path":
			r.Path = head.Arg
		case "base":
			bases = append(bases, head.Arg)
		case "enum":
			v := nextEnum
			if raw := firstInstrArg(inner, "value"); raw != "" {
				parsed, err := strconv.ParseInt(raw, 10, 32)
				if err != nil {
					return nil, moduleErrf("bad enum value %q at %s", raw, n.Path())
				}
				v = int32(parsed)
			}
			r.Enums = append(r.Enums, ytype.EnumItem{Name: head.Arg, Value: v})
			nextEnum = v + 1
		case "bit":
			p := nextBit
			if raw := firstInstrArg(inner, "position"); raw != "" {
				parsed, err := strconv.ParseUint(raw, 10, 32)
				if err != nil {
					return nil, moduleErrf("bad bit position %q at %s", raw, n.Path())
				}
				p = uint32(parsed)
			}
			r.Bits = append(r.Bits, ytype.BitItem{Name: head.Arg, Pos: p})
			nextBit = p + 1
		case "type":
			m, err := ms.buildType(n, head.Arg, inner)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
	}
	switch name {
	case "union":
		if len(members) == 0 {
			return nil, moduleErrf("union without member types at %s", n.Path())
		}
		return ytype.Union{Members: members}, nil
	case "identityref":
		if len(bases) == 0 {
			return nil, moduleErrf("identityref without base at %s", n.Path())
		}
		ir := ytype.IdentityRef{}
		for _, raw := range bases {
			id, err := ms.refIdent(n, raw)
			if err != nil {
				return nil, err
			}
			ir.Bases = append(ir.Bases, id)
		}
		return ir, nil
	}
	if !strings.Contains(name, ":") {
		t, ok, err := ytype.Builtin(name, r)
		if err != nil {
			return nil, moduleErrf("type %q at %s: %v", name, n.Path(), err)
		}
		if ok {
			return t, nil
		}
	}
	id, err := ms.refIdent(n, name)
	if err != nil {
		return nil, err
	}
	return ytype.Unresolved{Ref: id, Refine: r}, nil
}
