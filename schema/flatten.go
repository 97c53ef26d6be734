package schema

import (
	"github.com/nokia/yangc/arena"
	"github.com/nokia/yangc/kind"
)

// flatten fills the compact arena from the fully resolved tree. Scaffolding
// kinds that only drove resolution never reach the arena; meeting one that
// should already be gone is an internal error.
func (ms *ModuleSet) flatten() (*arena.Schema, error) {
	var b arena.Builder
	if _, err := flattenNode(&b, ms.root, -1); err != nil {
		return nil, err
	}
	for _, a := range ms.annotations {
		b.AddAnnotation(a)
	}
	return b.Seal(), nil
}

func flattenNode(b *arena.Builder, n *Node, parent int32) (int32, error) {
	switch n.Kind {
	case kind.Uses, kind.Augment, kind.Deviation, kind.Grouping, kind.Typedef, kind.Extended:
		return -1, internalErrf("unresolved %s node at %s", n.Kind, n.Path())
	}
	idx := b.Add(arena.Node{
		Flags:     flattenFlags(n),
		Name:      n.Name.Name,
		Module:    flattenModule(n),
		Namespace: n.Namespace,
		Units:     n.Units,
		Default:   n.Default,
		Parent:    parent,
		Keys:      n.Keys,
		Type:      n.Type,
	})
	var kids []int32
	for _, c := range n.Children {
		switch c.Kind {
		case kind.Import, kind.BelongsTo, kind.Deviate, kind.Refine:
			continue
		}
		ci, err := flattenNode(b, c, idx)
		if err != nil {
			return -1, err
		}
		kids = append(kids, ci)
	}
	b.SetChildren(idx, kids)
	return idx, nil
}

func flattenFlags(n *Node) arena.Flags {
	st := arena.StatusCurrent
	switch n.Status {
	case "deprecated":
		st = arena.StatusDeprecated
	case "obsolete":
		st = arena.StatusObsolete
	}
	config := n.Config != nil && *n.Config
	return arena.MakeFlags(n.Kind, n.Presence, n.UserOrdered, config, n.Mandatory, st)
}

func flattenModule(n *Node) string {
	if n.Parent == nil {
		return ""
	}
	return n.ModuleName()
}
