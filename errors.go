package cervus

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	// ErrSingularMatrix is returned by Transform.Update when the composed
	// world matrix cannot be inverted (for example a zero scale somewhere in
	// the hierarchy). The transform's WorldToSelf keeps its previous value.
	ErrSingularMatrix = eris.New("cervus: singular world matrix")

	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = eris.New("cervus: invalid config")

	// ErrNoSteps is returned when an input script contains no steps.
	ErrNoSteps = eris.New("cervus: input script has no steps")
)

// mustHave panics when e lacks the capability a component depends on.
// Composition is the caller's job; a missing capability is a programming error.
func mustHave(e *Entity, c Capability, user string) Component {
	comp := e.Component(c)
	if comp == nil {
		panic(fmt.Sprintf("cervus: %s on entity %q requires a %s", user, e.Name, c))
	}
	return comp
}
