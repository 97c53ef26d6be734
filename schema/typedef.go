package schema

import (
	"fmt"

	"github.com/nokia/yangc/ident"
	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/ytype"
)

// typedefScope resolves named type references. Definitions are collected
// tree-wide after expansion; a reference tries its bound module first, then
// the use site's own module. Resolution memoizes per definition.
type typedefScope struct {
	ms       *ModuleSet
	defs     map[string]*Node
	resolved map[string]ytype.Type
	chasing  map[string]bool
}

// resolveTypedefs replaces every unresolved type reference with the resolved
// definition, merged with the use-site refinement. Typedef defaults and
// units flow to use sites that declare none.
func (ms *ModuleSet) resolveTypedefs() error {
	sc := &typedefScope{
		ms:       ms,
		defs:     map[string]*Node{},
		resolved: map[string]ytype.Type{},
		chasing:  map[string]bool{},
	}
	if err := ms.root.Walk(func(n *Node) error {
		if n.Kind == kind.Typedef {
			sc.defs[n.Name.Key()] = n
		}
		return nil
	}); err != nil {
		return err
	}
	if err := ms.root.Walk(func(n *Node) error {
		if n.Kind == kind.Typedef || n.Type == nil {
			return nil
		}
		t, def, err := sc.resolve(n, n.Type)
		if err != nil {
			return fmt.Errorf("at %s: %w", n.Path(), err)
		}
		n.Type = t
		if def != nil {
			if n.Default == "" {
				n.Default = def.Default
			}
			if n.Units == "" {
				n.Units = def.Units
			}
		}
		return nil
	}); err != nil {
		return err
	}
	// typedef definitions are consumed; drop them from the tree
	return ms.root.Walk(func(n *Node) error {
		kids := n.Children
		for i := 0; i < len(kids); i++ {
			if kids[i].Kind == kind.Typedef {
				kids[i].Detach()
				kids = n.Children
				i--
			}
		}
		return nil
	})
}

// resolve rewrites t into a fully concrete type, looking references up from
// the perspective of node n. The returned node, if any, is the outermost
// typedef definition the reference landed on, for default and units
// inheritance.
func (sc *typedefScope) resolve(n *Node, t ytype.Type) (ytype.Type, *Node, error) {
	switch x := t.(type) {
	case ytype.Unresolved:
		def, ok := sc.defs[x.Ref.Key()]
		if !ok {
			// a grouping copy's own typedefs bind to the destination
			// module while its references carry the defining module
			local := ident.ModuleName(n.ModuleName(), x.Ref.Name)
			def, ok = sc.defs[local.Key()]
		}
		if !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrUnknownTypedef, x.Ref)
		}
		base, err := sc.definition(def)
		if err != nil {
			return nil, nil, err
		}
		merged, err := ytype.Refine(base, x.Refine)
		if err != nil {
			return nil, nil, fmt.Errorf("typedef %s: %v", x.Ref, err)
		}
		return merged, def, nil
	case ytype.Union:
		members := make([]ytype.Type, len(x.Members))
		for i, m := range x.Members {
			rm, _, err := sc.resolve(n, m)
			if err != nil {
				return nil, nil, err
			}
			members[i] = rm
		}
		return ytype.DedupUnion(ytype.Union{Members: members}), nil, nil
	}
	return t, nil, nil
}

// definition resolves a typedef's own declared type, memoized, guarding
// against self-referential chains.
func (sc *typedefScope) definition(def *Node) (ytype.Type, error) {
	key := def.Name.Key()
	if t, ok := sc.resolved[key]; ok {
		return t, nil
	}
	if sc.chasing[key] {
		return nil, moduleErrf("typedef cycle through %s", def.Name)
	}
	if def.Type == nil {
		return nil, moduleErrf("typedef %s without a type", def.Name)
	}
	sc.chasing[key] = true
	t, _, err := sc.resolve(def, def.Type)
	delete(sc.chasing, key)
	if err != nil {
		return nil, err
	}
	sc.resolved[key] = t
	return t, nil
}
