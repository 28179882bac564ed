package archive

import (
	"errors"
	"fmt"

	"github.com/sbst-go/sbst/pkg/search/framework"
)

// ErrUnknownSecondaryObjective is a configuration error.
var ErrUnknownSecondaryObjective = errors.New("unknown secondary objective")

// SecondaryObjective breaks ties between two encodings covering the same
// objective. Compare is positive when the challenger is preferred, negative
// when the incumbent is, and zero when it has no opinion.
type SecondaryObjective interface {
	Name() string
	Compare(challenger, incumbent framework.Encoding) int
}

// LengthObjective prefers shorter encodings. Encodings that cannot report a
// length are never preferred over each other.
type LengthObjective struct{}

// LengthObjectiveName selects LengthObjective in configuration.
const LengthObjectiveName = "length"

func (LengthObjective) Name() string {
	return LengthObjectiveName
}

func (LengthObjective) Compare(challenger, incumbent framework.Encoding) int {
	c, ok1 := challenger.(framework.Lengther)
	i, ok2 := incumbent.(framework.Lengther)
	if !ok1 || !ok2 {
		return 0
	}
	switch {
	case c.Length() < i.Length():
		return 1
	case c.Length() > i.Length():
		return -1
	default:
		return 0
	}
}

// NewSecondaryObjectives resolves configured names.
func NewSecondaryObjectives(names ...string) ([]SecondaryObjective, error) {
	out := make([]SecondaryObjective, 0, len(names))
	for _, name := range names {
		switch name {
		case LengthObjectiveName:
			out = append(out, LengthObjective{})
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownSecondaryObjective, name)
		}
	}
	return out, nil
}

// Prefer walks the chain and reports whether challenger should replace
// incumbent. The first comparator with a non-zero verdict decides.
func Prefer(chain []SecondaryObjective, challenger, incumbent framework.Encoding) bool {
	for _, c := range chain {
		if v := c.Compare(challenger, incumbent); v != 0 {
			return v > 0
		}
	}
	return false
}
