package schema

import (
	"fmt"

	"github.com/nokia/yangc/ytype"
)

// leafrefDepth caps chains of leafrefs pointing at leafrefs.
const leafrefDepth = 32

// resolveLeafrefs substitutes each leafref type with the value type of the
// leaf its path points at. Chains resolve through intermediate leafrefs up
// to a fixed depth.
func (ms *ModuleSet) resolveLeafrefs() error {
	return ms.root.Walk(func(n *Node) error {
		if n.Type == nil {
			return nil
		}
		t, err := mapType(n.Type, func(t ytype.Type) (ytype.Type, error) {
			lr, ok := t.(ytype.LeafRef)
			if !ok {
				return t, nil
			}
			return ms.chaseLeafref(n, lr.Path, 0)
		})
		if err != nil {
			return err
		}
		n.Type = t
		return nil
	})
}

func (ms *ModuleSet) chaseLeafref(n *Node, path string, depth int) (ytype.Type, error) {
	if depth >= leafrefDepth {
		return nil, fmt.Errorf("%w: chain too deep at %q", ErrBadLeafref, path)
	}
	p, err := ParsePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrBadLeafref, path, err)
	}
	var target *Node
	if p.Absolute {
		target, err = ms.findTarget(n, p)
		if err != nil {
			return nil, err
		}
	} else {
		// each "../" steps up once from the leaf itself
		cur := n
		for i := 0; i < p.Up; i++ {
			if cur == nil {
				break
			}
			cur = cur.Parent
		}
		fromMod := n.ModuleName()
		refMod := n.RefModule()
		for _, st := range p.Steps {
			if cur == nil {
				break
			}
			stepMod := fromMod
			if st.Prefix != "" {
				m, ok := ms.resolvePrefix(refMod, st.Prefix)
				if !ok {
					return nil, moduleErrf("unknown prefix %q in leafref %q", st.Prefix, path)
				}
				stepMod = m
			}
			next := cur.Child(st.Name, stepMod)
			if next == nil {
				next = descendCases(cur, st.Name, stepMod)
			}
			cur = next
		}
		target = cur
	}
	if target == nil || target.Type == nil {
		return nil, fmt.Errorf("%w: %q at %s", ErrBadLeafref, path, n.Path())
	}
	if lr, ok := target.Type.(ytype.LeafRef); ok {
		return ms.chaseLeafref(target, lr.Path, depth+1)
	}
	return target.Type, nil
}
