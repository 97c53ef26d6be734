package schema

import (
	"fmt"

	"github.com/nokia/yangc/kind"
)

// applyAugments grafts top-level augment statements onto their targets.
// Augments may target nodes introduced by other augments, in any module
// order, so unresolved ones are retried until a round makes no progress.
func (ms *ModuleSet) applyAugments() error {
	var pending []*Node
	for _, m := range ms.root.Children {
		for _, c := range m.Children {
			if c.Kind == kind.Augment {
				pending = append(pending, c)
			}
		}
	}
	for len(pending) > 0 {
		var stuck []*Node
		for _, aug := range pending {
			target, err := ms.findTarget(aug, aug.Target)
			if err != nil {
				return err
			}
			if target == nil {
				stuck = append(stuck, aug)
				continue
			}
			ms.graft(aug, target)
		}
		if len(stuck) == len(pending) {
			return fmt.Errorf("%w: %s", ErrUnresolvedAugment, stuck[0].Target)
		}
		pending = stuck
	}
	return nil
}

// graft moves an augment's children under the target and discards the
// emptied augment wrapper.
func (ms *ModuleSet) graft(aug, target *Node) {
	kids := append([]*Node(nil), aug.Children...)
	for _, c := range kids {
		c.Detach()
		if target.Kind == kind.Choice {
			c = wrapForChoice(c)
		}
		target.AddChild(c)
	}
	aug.Detach()
}

// findTarget resolves an absolute schema path from the perspective of node
// from. A nil result with nil error means the target does not exist yet.
func (ms *ModuleSet) findTarget(from *Node, p Path) (*Node, error) {
	if !p.Absolute || len(p.Steps) == 0 {
		return nil, moduleErrf("target path %q is not absolute", p)
	}
	fromMod := from.ModuleName()
	refMod := from.RefModule()
	first := p.Steps[0]
	mod, ok := ms.resolvePrefix(refMod, first.Prefix)
	if !ok {
		return nil, moduleErrf("unknown prefix %q in target %q", first.Prefix, p)
	}
	cur := ms.moduleNode(mod)
	if cur == nil {
		return nil, moduleErrf("target %q names unknown module %q", p, mod)
	}
	for _, st := range p.Steps {
		stepMod := fromMod
		if st.Prefix != "" {
			m, ok := ms.resolvePrefix(refMod, st.Prefix)
			if !ok {
				return nil, moduleErrf("unknown prefix %q in target %q", st.Prefix, p)
			}
			stepMod = m
		}
		next := cur.Child(st.Name, stepMod)
		if next == nil {
			// choices list their data children under implicit cases
			next = descendCases(cur, st.Name, stepMod)
		}
		if next == nil {
			return nil, nil
		}
		cur = next
	}
	return cur, nil
}

func descendCases(n *Node, name, mod string) *Node {
	for _, c := range n.Children {
		if c.Kind != kind.Case && c.Kind != kind.Input && c.Kind != kind.Output {
			continue
		}
		if got := c.Child(name, mod); got != nil {
			return got
		}
	}
	return nil
}
