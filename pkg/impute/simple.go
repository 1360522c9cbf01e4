package impute

import (
	"errors"
	"fmt"

	"github.com/ashimb9/VIM/pkg/frame"
	"github.com/ashimb9/VIM/pkg/stats"
)

// ---------- Simple Imputation Methods ----------

// Mean replaces missing cells of a numeric column with the mean of its
// observed values.
func Mean(f *frame.Frame, name string) error {
	col, values, err := observedNumeric(f, name)
	if err != nil {
		return err
	}
	fill(col, stats.Mean(values))
	return nil
}

// Median replaces missing cells of a numeric column with the median of its
// observed values.
func Median(f *frame.Frame, name string) error {
	col, values, err := observedNumeric(f, name)
	if err != nil {
		return err
	}
	fill(col, stats.Median(values))
	return nil
}

// Mode replaces missing cells with the most frequent observed value. It works
// on numeric and categorical columns.
func Mode(f *frame.Frame, name string) error {
	col, ok := f.Column(name)
	if !ok {
		return fmt.Errorf("impute: no column %q", name)
	}
	switch c := col.(type) {
	case *frame.NumericColumn:
		_, values, err := observedNumeric(f, name)
		if err != nil {
			return err
		}
		fill(c, stats.Mode(values))
		return nil
	case *frame.CategoricalColumn:
		mode := stats.ModeInt(c.Codes)
		if mode < 0 {
			return fmt.Errorf("impute: column %q has no observed values", name)
		}
		for i, code := range c.Codes {
			if code < 0 {
				c.Codes[i] = mode
			}
		}
		return nil
	}
	return fmt.Errorf("impute: column %q cannot be mode-imputed", name)
}

func observedNumeric(f *frame.Frame, name string) (*frame.NumericColumn, []float64, error) {
	col, ok := f.Column(name)
	if !ok {
		return nil, nil, fmt.Errorf("impute: no column %q", name)
	}
	num, ok := col.(*frame.NumericColumn)
	if !ok {
		return nil, nil, fmt.Errorf("impute: column %q is not numeric", name)
	}
	var values []float64
	for i, v := range num.Values {
		if !num.IsMissing(i) {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return nil, nil, errors.New("impute: column " + name + " has no observed values")
	}
	return num, values, nil
}

func fill(c *frame.NumericColumn, v float64) {
	for i := range c.Values {
		if c.IsMissing(i) {
			c.Values[i] = v
		}
	}
}
