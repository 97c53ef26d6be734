package schema

import (
	"sort"
	"strings"

	"github.com/nokia/yangc/arena"
	"github.com/nokia/yangc/kind"
	"github.com/nokia/yangc/ytype"
)

// Annotation is a metadata leaf attachable to any data node.
type Annotation = arena.Annotation

// extractMetadata lifts annotation declarations out of the tree and removes
// every remaining extension node. The built-in "operation" annotation is
// always present; declared annotations with the same name override it.
func (ms *ModuleSet) extractMetadata() error {
	byName := map[string]Annotation{
		"operation": {Name: "operation", Type: ytype.Enum{Items: []ytype.EnumItem{
			{Name: "merge", Value: 0},
			{Name: "replace", Value: 1},
			{Name: "create", Value: 2},
			{Name: "delete", Value: 3},
			{Name: "remove", Value: 4},
		}}},
	}
	var exts []*Node
	if err := ms.root.Walk(func(n *Node) error {
		if n.Kind == kind.Extended {
			exts = append(exts, n)
		}
		return nil
	}); err != nil {
		return err
	}
	for _, n := range exts {
		if _, local, ok := strings.Cut(n.Ref, ":"); ok && local == "annotation" {
			byName[n.Name.Name] = Annotation{Name: n.Name.Name, Type: n.Type}
		}
		n.Detach()
	}
	ms.annotations = ms.annotations[:0]
	for _, a := range byName {
		ms.annotations = append(ms.annotations, a)
	}
	sort.Slice(ms.annotations, func(i, j int) bool {
		return ms.annotations[i].Name < ms.annotations[j].Name
	})
	return nil
}
