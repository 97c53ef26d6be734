package schema

import (
	"github.com/nokia/yangc/ytype"
)

// normalizeRanges rewrites symbolic min/max bounds to each type's true
// extremes and merges adjacent subranges, so equivalent restrictions compare
// equal in the flattened schema.
func (ms *ModuleSet) normalizeRanges() error {
	return ms.root.Walk(func(n *Node) error {
		if n.Type != nil {
			n.Type = ytype.Normalize(n.Type)
		}
		return nil
	})
}
