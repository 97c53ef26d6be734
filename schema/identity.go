package schema

import (
	"sort"

	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/ytype"
)

// closeIdentities computes the transitive derivation closure of every
// identity and stamps each identityref type with its sorted set of legal
// values, qualified as "module:name".
func (ms *ModuleSet) closeIdentities() error {
	derived := map[string][]string{} // base key -> direct derivations
	known := map[string]string{}     // identity key -> qualified name
	if err := ms.root.Walk(func(n *Node) error {
		if n.Kind != kind.Identity {
			return nil
		}
		key := n.Name.Key()
		known[key] = n.Name.String()
		for _, b := range n.Bases {
			derived[b.Key()] = append(derived[b.Key()], key)
		}
		return nil
	}); err != nil {
		return err
	}

	closure := func(bases []string) []string {
		seen := map[string]bool{}
		queue := append([]string(nil), bases...)
		var out []string
		for len(queue) > 0 {
			key := queue[0]
			queue = queue[1:]
			for _, d := range derived[key] {
				if seen[d] {
					continue
				}
				seen[d] = true
				out = append(out, known[d])
				queue = append(queue, d)
			}
		}
		sort.Strings(out)
		return out
	}

	return ms.root.Walk(func(n *Node) error {
		if n.Type == nil {
			return nil
		}
		t, err := mapType(n.Type, func(t ytype.Type) (ytype.Type, error) {
			ir, ok := t.(ytype.IdentityRef)
			if !ok {
				return t, nil
			}
			keys := make([]string, len(ir.Bases))
			for i, b := range ir.Bases {
				if _, ok := known[b.Key()]; !ok {
					return nil, moduleErrf("unknown base identity %s at %s", b, n.Path())
				}
				keys[i] = b.Key()
			}
			ir.Values = closure(keys)
			return ir, nil
		})
		if err != nil {
			return err
		}
		n.Type = t
		return nil
	})
}

// mapType applies fn to t, recursing through union members.
func mapType(t ytype.Type, fn func(ytype.Type) (ytype.Type, error)) (ytype.Type, error) {
	if u, ok := t.(ytype.Union); ok {
		members := make([]ytype.Type, len(u.Members))
		for i, m := range u.Members {
			rm, err := mapType(m, fn)
			if err != nil {
				return nil, err
			}
			members[i] = rm
		}
		return fn(ytype.Union{Members: members})
	}
	return fn(t)
}
