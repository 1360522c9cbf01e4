package impute

import (
	"fmt"

	"github.com/ashimb9/VIM/pkg/frame"
	"github.com/ashimb9/VIM/pkg/glm"
)

// FamilyPolicy selects the model family for each target: either automatic
// resolution from the target column's kind and level count, or one explicit
// family applied to every target. The zero value is Auto.
type FamilyPolicy struct {
	explicit bool
	family   glm.Family
}

// Auto resolves the family per target from its column kind.
func Auto() FamilyPolicy { return FamilyPolicy{} }

// Explicit applies the given family to every target.
func Explicit(f glm.Family) FamilyPolicy { return FamilyPolicy{explicit: true, family: f} }

// IsAuto reports whether the policy is automatic resolution.
func (p FamilyPolicy) IsAuto() bool { return !p.explicit }

// resolve maps a target column to its model family under the policy.
// Explicit families are taken as-is and fully determine fit and prediction;
// the target's kind is not re-inspected on that path.
func resolve(col frame.Column, policy FamilyPolicy) (glm.Family, error) {
	if !policy.IsAuto() {
		if !policy.family.Valid() {
			return 0, fmt.Errorf("%w: %s", glm.ErrUnsupportedFamily, policy.family)
		}
		return policy.family, nil
	}
	switch c := col.(type) {
	case *frame.NumericColumn:
		return glm.Gaussian, nil
	case *frame.CategoricalColumn:
		switch {
		case c.NumLevels() < 2:
			return 0, fmt.Errorf("%w: target %q has fewer than two observed levels",
				glm.ErrUnsupportedFamily, col.Name())
		case c.NumLevels() == 2:
			return glm.Binomial, nil
		default:
			return glm.Multinomial, nil
		}
	}
	return 0, fmt.Errorf("%w: cannot resolve a family for target %q", glm.ErrUnsupportedFamily, col.Name())
}
