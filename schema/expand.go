package schema

import (
	"fmt"

	"github.com/nokia/yangc/kind"
)

// expandGroupings replaces every uses statement with an independent deep
// copy of the referenced grouping's children. Groupings referencing other
// groupings expand innermost-first; per-uses refine and augment
// substatements are applied to the fresh copy before it is spliced in.
func (ms *ModuleSet) expandGroupings() error {
	e := &expander{
		ms:         ms,
		groupings:  map[string]*Node{},
		expanded:   map[string]bool{},
		inProgress: map[string]bool{},
	}
	if err := ms.root.Walk(func(n *Node) error {
		if n.Kind != kind.Grouping {
			return nil
		}
		e.groupings[n.ModuleName()+":"+n.Name.Name] = n
		return nil
	}); err != nil {
		return err
	}
	if err := e.expandIn(ms.root); err != nil {
		return err
	}
	// grouping definitions are fully consumed templates now
	return ms.root.Walk(func(n *Node) error {
		kids := n.Children
		for i := 0; i < len(kids); i++ {
			if kids[i].Kind == kind.Grouping {
				kids[i].Detach()
				kids = n.Children
				i--
			}
		}
		return nil
	})
}

type expander struct {
	ms         *ModuleSet
	groupings  map[string]*Node
	expanded   map[string]bool
	inProgress map[string]bool
}

func (e *expander) lookup(uses *Node) (*Node, string, error) {
	id, err := e.ms.refIdent(uses, uses.Ref)
	if err != nil {
		return nil, "", err
	}
	key := id.Key()
	g, ok := e.groupings[key]
	if !ok {
		return nil, "", fmt.Errorf("%w: %q at %s", ErrUnknownGrouping, uses.Ref, uses.Path())
	}
	return g, key, nil
}

func (e *expander) expandIn(n *Node) error {
	for i := 0; i < len(n.Children); i++ {
		c := n.Children[i]
		if c.Kind != kind.Uses {
			if err := e.expandIn(c); err != nil {
				return err
			}
			continue
		}
		g, key, err := e.lookup(c)
		if err != nil {
			return err
		}
		// innermost-first: the definition's own uses expand exactly once
		if !e.expanded[key] {
			if e.inProgress[key] {
				return fmt.Errorf("%w: %q", ErrGroupingCycle, c.Ref)
			}
			e.inProgress[key] = true
			if err := e.expandIn(g); err != nil {
				return err
			}
			delete(e.inProgress, key)
			e.expanded[key] = true
		}
		copies, err := e.instantiate(c, g)
		if err != nil {
			return err
		}
		at := c.Detach()
		if n.Kind == kind.Choice {
			for j, cp := range copies {
				copies[j] = wrapForChoice(cp)
			}
		}
		n.InsertChildren(at, copies)
		i += len(copies) - 1
	}
	return nil
}

// instantiate deep-copies the grouping children for one specific uses site,
// rebinds lazily bound names to the destination module and applies the
// uses-scoped refine and augment substatements. A uses inside another
// grouping definition keeps its copies lazy; they bind when the outer
// grouping lands at a real site.
func (e *expander) instantiate(uses, g *Node) ([]*Node, error) {
	destMod := uses.ModuleName()
	srcMod := g.ModuleName()
	bind := !underGrouping(uses)
	copies := make([]*Node, 0, len(g.Children))
	for _, gc := range g.Children {
		cp := gc.Copy()
		stampSrcModule(cp, srcMod)
		if bind {
			cp.RebindLazy(destMod)
		}
		copies = append(copies, cp)
	}
	for _, sub := range uses.Children {
		switch sub.Kind {
		case kind.Refine:
			target := findRelative(copies, sub.Target)
			if target == nil {
				return nil, moduleErrf("refine target %q not in grouping %q", sub.Target, uses.Ref)
			}
			target.Blueprint = append(target.Blueprint, sub.Blueprint...)
		case kind.Augment:
			target := findRelative(copies, sub.Target)
			if target == nil {
				return nil, moduleErrf("augment target %q not in grouping %q", sub.Target, uses.Ref)
			}
			kids := append([]*Node(nil), sub.Children...)
			for _, ac := range kids {
				ac.Detach()
				if bind {
					ac.RebindLazy(destMod)
				}
				if target.Kind == kind.Choice {
					ac = wrapForChoice(ac)
				}
				target.AddChild(ac)
			}
		}
	}
	// grafted augment children may themselves contain uses
	for _, cp := range copies {
		if err := e.expandIn(cp); err != nil {
			return nil, err
		}
	}
	return copies, nil
}

// stampSrcModule records the defining module on every node of a fresh copy.
// Nodes that came in through an inner grouping keep their own defining
// module.
func stampSrcModule(n *Node, mod string) {
	if n.SrcModule == "" {
		n.SrcModule = mod
	}
	for _, c := range n.Children {
		stampSrcModule(c, mod)
	}
}

func underGrouping(n *Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind == kind.Grouping {
			return true
		}
	}
	return false
}

// findRelative walks a relative path into a detached copy set.
func findRelative(copies []*Node, p Path) *Node {
	if p.Absolute || p.Up > 0 || len(p.Steps) == 0 {
		return nil
	}
	var cur *Node
	for _, cp := range copies {
		if cp.Name.Name == p.Steps[0].Name {
			cur = cp
			break
		}
	}
	for _, st := range p.Steps[1:] {
		if cur == nil {
			return nil
		}
		cur = cur.Child(st.Name, "")
	}
	return cur
}

// wrapForChoice inserts the implicit case wrapper a choice child needs when
// the expanded or grafted node is not itself a case.
func wrapForChoice(c *Node) *Node {
	if c.Kind == kind.Case || c.Kind == kind.Choice {
		return c
	}
	cs := &Node{Name: c.Name, Kind: kind.Case}
	cs.AddChild(c)
	return cs
}
