// Package formula parses model specifications of the form
// "T1 + T2 ~ P1 + P2" into target and predictor variable sets.
package formula

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ashimb9/VIM/pkg/frame"
)

// ErrInvalidFormula reports a malformed or unresolvable model specification.
var ErrInvalidFormula = errors.New("invalid formula")

// Formula is a parsed model specification: the ordered target variables on
// the left of "~" and the ordered predictor variables on its right.
type Formula struct {
	Targets    []string
	Predictors []string
}

// Parse splits spec into targets and predictors and validates every name
// against the frame's columns.
func Parse(spec string, f *frame.Frame) (*Formula, error) {
	lhs, rhs, ok := strings.Cut(spec, "~")
	if !ok {
		return nil, fmt.Errorf("%w: %q has no \"~\" separator", ErrInvalidFormula, spec)
	}
	targets, err := splitSide(lhs, "left")
	if err != nil {
		return nil, err
	}
	predictors, err := splitSide(rhs, "right")
	if err != nil {
		return nil, err
	}
	for _, name := range append(append([]string{}, targets...), predictors...) {
		if !f.Has(name) {
			return nil, fmt.Errorf("%w: %q is not a column of the dataset", ErrInvalidFormula, name)
		}
	}
	return &Formula{Targets: targets, Predictors: predictors}, nil
}

func splitSide(side, which string) ([]string, error) {
	var names []string
	seen := map[string]struct{}{}
	for _, tok := range strings.Split(side, "+") {
		name := strings.TrimSpace(tok)
		if name == "" {
			return nil, fmt.Errorf("%w: empty term on %s-hand side", ErrInvalidFormula, which)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: duplicate variable %q on %s-hand side", ErrInvalidFormula, name, which)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// String renders the formula back into its canonical "T ~ P" form.
func (f *Formula) String() string {
	return strings.Join(f.Targets, " + ") + " ~ " + strings.Join(f.Predictors, " + ")
}
