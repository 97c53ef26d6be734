package schema

import (
	"github.com/nokia/yangc/kind"
)

// inheritConfig gives every node an explicit config value. The root default
// is true; a declared false forces the whole subtree false, regardless of
// what descendants declared.
func (ms *ModuleSet) inheritConfig() error {
	for _, m := range ms.root.Children {
		setConfig(m, true)
	}
	return nil
}

func setConfig(n *Node, inherited bool) {
	effective := inherited
	if inherited && n.Config != nil {
		effective = *n.Config
	}
	// rpc and notification payloads never carry config data
	switch n.Kind {
	case kind.RPC, kind.Action, kind.Notification:
		effective = false
	}
	v := effective
	n.Config = &v
	for _, c := range n.Children {
		setConfig(c, effective)
	}
}
