package diagnostic

import (
	"fmt"

	"go.uber.org/c2goflow/token"
)

// FlowStep is one step in an Entry's flow trail: a piece of explanatory text anchored to the
// token it describes. Grounded on the teacher's LocatedPrestring, which pairs a Prestring with
// the token.Position it was produced at; this module has no separate Prestring type since entry
// text is already a plain string by the time it reaches this package.
type FlowStep struct {
	Text string
	At   token.Node
}

// String renders a FlowStep the same way LocatedPrestring does: "<text> at "<location>"".
func (s FlowStep) String() string {
	return fmt.Sprintf("%s at %q", s.Text, stableKeyOf(s.At))
}
