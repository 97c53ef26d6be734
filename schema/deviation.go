package schema

import (
	"fmt"

	"github.com/nokia/yangc/kind"
)

// applyDeviations edits deviation targets before instruction replay. Adds
// and replaces append instructions, so a replayed attribute lands with
// last-wins semantics; deletes strip matching instruction spans; a
// not-supported deviate removes the whole target subtree.
func (ms *ModuleSet) applyDeviations() error {
	var devs []*Node
	for _, m := range ms.root.Children {
		for _, c := range m.Children {
			if c.Kind == kind.Deviation {
				devs = append(devs, c)
			}
		}
	}
	for _, dev := range devs {
		target, err := ms.findTarget(dev, dev.Target)
		if err != nil {
			return err
		}
		if target == nil {
			return moduleErrf("deviation target %q not found", dev.Target)
		}
		for _, d := range dev.Children {
			if d.Kind != kind.Deviate {
				continue
			}
			if err := applyDeviate(target, d); err != nil {
				return fmt.Errorf("deviation %q: %w", dev.Target, err)
			}
		}
		dev.Detach()
	}
	return nil
}

func applyDeviate(target, d *Node) error {
	switch d.Name.Name {
	case "not-supported":
		target.Detach()
	case "add":
		target.Blueprint = append(target.Blueprint, d.Blueprint...)
	case "delete":
		for _, sp := range spans(d.Blueprint) {
			target.Blueprint = removeInstrKind(target.Blueprint, d.Blueprint[sp[0]].Keyword)
		}
	case "replace":
		for _, sp := range spans(d.Blueprint) {
			target.Blueprint = removeInstrKind(target.Blueprint, d.Blueprint[sp[0]].Keyword)
			target.Blueprint = append(target.Blueprint, d.Blueprint[sp[0]:sp[1]+1]...)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDeviate, d.Name.Name)
	}
	return nil
}
