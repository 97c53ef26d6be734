package schema

import (
	"github.com/nokia/yangc/kind"
)

// assignNamespaces stamps every node with the XML namespace of the module
// its name is bound to, falling back to the parent's namespace. Augmented
// children keep their defining module's namespace this way.
func (ms *ModuleSet) assignNamespaces() error {
	byModule := map[string]string{}
	for _, m := range ms.root.Children {
		if m.Kind == kind.Module {
			byModule[m.Name.Name] = m.Namespace
		}
	}
	for _, m := range ms.root.Children {
		stampNamespace(m, byModule, "")
	}
	return nil
}

func stampNamespace(n *Node, byModule map[string]string, parent string) {
	ns := parent
	if mod, ok := n.Name.Space.ModuleName(); ok {
		if got, ok := byModule[mod]; ok && got != "" {
			ns = got
		}
	}
	n.Namespace = ns
	for _, c := range n.Children {
		stampNamespace(c, byModule, ns)
	}
}
