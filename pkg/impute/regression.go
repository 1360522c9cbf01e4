// Package impute fills missing cells of a frame. Its core is regression
// imputation: each target variable is modeled on a shared predictor set and
// its missing cells are replaced by model predictions, either the most likely
// value or a draw from the predictive distribution. Simple single-column
// imputers (mean, median, mode) are provided alongside.
package impute

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/exp/rand"

	"github.com/ashimb9/VIM/pkg/formula"
	"github.com/ashimb9/VIM/pkg/frame"
	"github.com/ashimb9/VIM/pkg/glm"
	"github.com/ashimb9/VIM/pkg/survey"
)

// DefaultSuffix is the status-column name suffix when none is configured.
const DefaultSuffix = "imp"

// Regression imputes missing target values from a regression of each target
// on a shared predictor set. Targets are processed strictly in formula order,
// each seeing the substitutions already made for earlier targets, so the
// imputer is not safe for concurrent use on one frame.
type Regression struct {
	// Family selects the model family; the zero value resolves it per target.
	Family FamilyPolicy
	// Robust selects outlier-resistant fitting variants.
	Robust bool
	// TrackStatus appends one boolean "<target>_<suffix>" column per imputed
	// target, true where the target was missing before the call.
	TrackStatus bool
	// Suffix names the status columns; empty means DefaultSuffix.
	Suffix string
	// ModCat selects deterministic resolution of categorical predictions
	// (threshold/argmax). The default is stochastic sampling.
	ModCat bool
	// Src is the random source for stochastic draws. Nil means a time-seeded
	// source; fix it for reproducible imputations.
	Src rand.Source
	// Log receives diagnostics (notices and warnings). Nil means slog.Default().
	Log *slog.Logger
	// SurfaceFitTrace forwards the multinomial fit's progress output to Log
	// instead of discarding it.
	SurfaceFitTrace bool

	src rand.Source // lazily seeded fallback, used only while Src is nil
}

// NewRegression returns a regression imputer with the default configuration:
// automatic family resolution, non-robust fits, status tracking with the
// "imp" suffix, and stochastic categorical draws.
func NewRegression() *Regression {
	return &Regression{TrackStatus: true, Suffix: DefaultSuffix}
}

// Impute parses spec ("T1 + T2 ~ P1 + P2"), then fills the missing cells of
// each target in turn, mutating f in place. Only rows whose predictors are
// all present can be imputed; missing targets on incomplete rows stay missing
// and are reported through the diagnostics logger.
func (r *Regression) Impute(f *frame.Frame, spec string) error {
	if f == nil {
		return errors.New("impute: nil frame")
	}
	mf, err := formula.Parse(spec, f)
	if err != nil {
		return err
	}
	// Predictors are shared across targets, so row completeness is derived
	// once up front. A predictor that is itself an earlier target is the one
	// exception: its missingness shrinks as it gets imputed, so targets that
	// depend on it recompute completeness against the updated frame.
	shared, err := frame.CompleteCases(f, mf.Predictors)
	if err != nil {
		return err
	}
	predictorSet := make(map[string]bool, len(mf.Predictors))
	for _, p := range mf.Predictors {
		predictorSet[p] = true
	}
	refresh := false
	for _, target := range mf.Targets {
		// A target modeling itself is degenerate; drop it from its own
		// predictor set.
		predictors := mf.Predictors
		if predictorSet[target] {
			predictors = without(mf.Predictors, target)
			if len(predictors) == 0 {
				return fmt.Errorf("%w: target %q has no predictors besides itself",
					formula.ErrInvalidFormula, target)
			}
		}
		complete := shared
		if refresh || predictorSet[target] {
			if complete, err = frame.CompleteCases(f, predictors); err != nil {
				return err
			}
		}
		if err := r.imputeTarget(f, predictors, target, complete); err != nil {
			return err
		}
		if predictorSet[target] {
			refresh = true
		}
	}
	return nil
}

func without(names []string, drop string) []string {
	out := make([]string, 0, len(names)-1)
	for _, n := range names {
		if n != drop {
			out = append(out, n)
		}
	}
	return out
}

// ImputeDesign runs Impute against the frame contained in a survey design,
// leaving weights, strata and prior call provenance untouched and recording
// this call on success.
func (r *Regression) ImputeDesign(d *survey.Design, spec string) error {
	if d == nil || d.Frame == nil {
		return errors.New("impute: nil design")
	}
	if err := r.Impute(d.Frame, spec); err != nil {
		return err
	}
	d.RecordCall("regression imputation: " + spec)
	return nil
}

func (r *Regression) imputeTarget(f *frame.Frame, predictors []string, target string, complete []bool) error {
	log := r.logger()
	mask, err := f.MissingMask(target)
	if err != nil {
		return err
	}
	nMissing := 0
	for _, m := range mask {
		if m {
			nMissing++
		}
	}
	if nMissing == 0 {
		log.Info("no missing values", "target", target)
		return nil
	}

	var fitRows, impRows []int
	for i, ok := range complete {
		if !ok {
			continue
		}
		if mask[i] {
			impRows = append(impRows, i)
		} else {
			fitRows = append(fitRows, i)
		}
	}

	if r.TrackStatus {
		r.writeStatus(f, target, mask, log)
	}

	if len(impRows) == 0 {
		log.Info("no missing values with valid predictors", "target", target)
		return nil
	}

	col, _ := f.Column(target)
	fam, err := resolve(col, r.Family)
	if err != nil {
		return err
	}

	cfg := glm.Config{Robust: r.Robust}
	if r.SurfaceFitTrace {
		cfg.Trace = log
	}
	model, err := glm.Fit(f, target, predictors, fitRows, fam, cfg)
	if err != nil {
		return err
	}

	if err := r.substitute(f, col, model, fam, impRows); err != nil {
		return err
	}

	if nMissing > len(impRows) {
		log.Warn("residual missing values remain due to missing predictors",
			"target", target, "remaining", nMissing-len(impRows))
	}
	return nil
}

// substitute predicts at the impute rows and writes the results into the
// target column. The prediction input carries a placeholder in the target's
// missing cells, since the backend requires every referenced column to be
// complete; on prediction failure the placeholders are rolled back.
func (r *Regression) substitute(f *frame.Frame, col frame.Column, model *glm.Model, fam glm.Family, impRows []int) error {
	switch c := col.(type) {
	case *frame.NumericColumn:
		for _, i := range impRows {
			c.Values[i] = 0
		}
		preds, err := model.Predict(f, impRows)
		if err != nil {
			for _, i := range impRows {
				c.Values[i] = math.NaN()
			}
			return err
		}
		for j, i := range impRows {
			c.Values[i] = preds[j]
		}
	case *frame.CategoricalColumn:
		for _, i := range impRows {
			c.Codes[i] = 0
		}
		var codes []int
		var err error
		if fam == glm.Multinomial {
			var probs [][]float64
			probs, err = model.PredictProba(f, impRows)
			if err == nil {
				codes = drawMultinomial(probs, r.ModCat, r.source())
			}
		} else {
			var probs []float64
			probs, err = model.Predict(f, impRows)
			if err == nil {
				codes = drawBinary(probs, r.ModCat, r.source())
			}
		}
		if err != nil {
			for _, i := range impRows {
				c.Codes[i] = -1
			}
			return err
		}
		for j, i := range impRows {
			c.Codes[i] = codes[j]
		}
	default:
		return errors.New("impute: target column kind cannot be imputed")
	}
	return nil
}

// writeStatus appends the status column for a target, or overwrites an
// existing column of that name (coercing it to boolean) with a warning.
func (r *Regression) writeStatus(f *frame.Frame, target string, mask []bool, log *slog.Logger) {
	name := target + "_" + r.suffix()
	vals := append([]bool(nil), mask...)
	status := frame.NewBool(name, vals)
	if f.Has(name) {
		log.Warn("status column already existed and was overwritten", "column", name)
		_ = f.Replace(status)
		return
	}
	_ = f.Append(status)
}

func (r *Regression) suffix() string {
	if r.Suffix == "" {
		return DefaultSuffix
	}
	return r.Suffix
}

func (r *Regression) logger() *slog.Logger {
	if r.Log != nil {
		return r.Log
	}
	return slog.Default()
}

func (r *Regression) source() rand.Source {
	if r.Src != nil {
		return r.Src
	}
	if r.src == nil {
		r.src = rand.NewSource(uint64(time.Now().UnixNano()))
	}
	return r.src
}
