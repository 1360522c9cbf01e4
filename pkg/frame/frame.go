package frame

import (
	"errors"
	"fmt"
	"math"
)

var nan = math.NaN()

// Column is a single named variable of a Frame. All columns of a frame have
// the same length, and each kind carries its own missing-value representation.
type Column interface {
	Name() string
	Len() int
	IsMissing(i int) bool
}

// NumericColumn holds continuous values. NaN marks a missing cell.
type NumericColumn struct {
	name   string
	Values []float64
}

// NewNumeric builds a numeric column over the given values.
func NewNumeric(name string, values []float64) *NumericColumn {
	return &NumericColumn{name: name, Values: values}
}

func (c *NumericColumn) Name() string { return c.name }

func (c *NumericColumn) Len() int { return len(c.Values) }

func (c *NumericColumn) IsMissing(i int) bool { return math.IsNaN(c.Values[i]) }

// CategoricalColumn holds labeled values over a fixed, ordered level set.
// Codes index into the level set; a negative code marks a missing cell.
type CategoricalColumn struct {
	name   string
	Codes  []int
	levels []string
}

// NewCategorical builds a categorical column from string labels. Levels are
// registered in order of first appearance; missing markers become missing cells.
func NewCategorical(name string, labels []string) *CategoricalColumn {
	seen := map[string]int{}
	var levels []string
	codes := make([]int, len(labels))
	for i, lab := range labels {
		if IsMissingToken(lab) {
			codes[i] = -1
			continue
		}
		code, ok := seen[lab]
		if !ok {
			code = len(levels)
			seen[lab] = code
			levels = append(levels, lab)
		}
		codes[i] = code
	}
	return &CategoricalColumn{name: name, Codes: codes, levels: levels}
}

// NewCategoricalCodes builds a categorical column from precomputed codes and levels.
func NewCategoricalCodes(name string, codes []int, levels []string) *CategoricalColumn {
	return &CategoricalColumn{name: name, Codes: codes, levels: levels}
}

func (c *CategoricalColumn) Name() string { return c.name }

func (c *CategoricalColumn) Len() int { return len(c.Codes) }

func (c *CategoricalColumn) IsMissing(i int) bool { return c.Codes[i] < 0 }

// Levels returns the ordered level set.
func (c *CategoricalColumn) Levels() []string { return c.levels }

// NumLevels returns the size of the level set.
func (c *CategoricalColumn) NumLevels() int { return len(c.levels) }

// Label returns the string label at row i, or "NA" for a missing cell.
func (c *CategoricalColumn) Label(i int) string {
	if c.Codes[i] < 0 {
		return "NA"
	}
	return c.levels[c.Codes[i]]
}

// BoolColumn holds flag values. It has no missing representation.
type BoolColumn struct {
	name   string
	Values []bool
}

// NewBool builds a boolean column over the given values.
func NewBool(name string, values []bool) *BoolColumn {
	return &BoolColumn{name: name, Values: values}
}

func (c *BoolColumn) Name() string { return c.name }

func (c *BoolColumn) Len() int { return len(c.Values) }

func (c *BoolColumn) IsMissing(i int) bool { return false }

// IsMissingToken reports whether a raw string cell denotes a missing value.
func IsMissingToken(s string) bool { return s == "" || s == "NA" || s == "NaN" }

// Frame is a table of named columns. Rows are independent observations.
// Imputation mutates columns in place; the frame is never reordered or
// resized except for appended status columns.
type Frame struct {
	cols  []Column
	index map[string]int
}

// New builds a frame from columns, which must be uniquely named and of equal length.
func New(cols ...Column) (*Frame, error) {
	f := &Frame{index: make(map[string]int, len(cols))}
	for _, c := range cols {
		if err := f.Append(c); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// NumRows returns the number of rows, 0 for an empty frame.
func (f *Frame) NumRows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// NumCols returns the number of columns.
func (f *Frame) NumCols() int { return len(f.cols) }

// Names returns the column names in frame order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.cols))
	for i, c := range f.cols {
		names[i] = c.Name()
	}
	return names
}

// Has reports whether a column with the given name exists.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Column returns the named column.
func (f *Frame) Column(name string) (Column, bool) {
	i, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.cols[i], true
}

// Append adds a new column at the end of the frame.
func (f *Frame) Append(c Column) error {
	if _, ok := f.index[c.Name()]; ok {
		return fmt.Errorf("frame: duplicate column %q", c.Name())
	}
	if len(f.cols) > 0 && c.Len() != f.NumRows() {
		return fmt.Errorf("frame: column %q has %d rows, frame has %d", c.Name(), c.Len(), f.NumRows())
	}
	f.index[c.Name()] = len(f.cols)
	f.cols = append(f.cols, c)
	return nil
}

// Replace swaps the column of the same name in place, keeping its position.
func (f *Frame) Replace(c Column) error {
	i, ok := f.index[c.Name()]
	if !ok {
		return fmt.Errorf("frame: no column %q to replace", c.Name())
	}
	if c.Len() != f.NumRows() {
		return fmt.Errorf("frame: column %q has %d rows, frame has %d", c.Name(), c.Len(), f.NumRows())
	}
	f.cols[i] = c
	return nil
}

// MissingMask returns the per-row missingness of the named column.
func (f *Frame) MissingMask(name string) ([]bool, error) {
	c, ok := f.Column(name)
	if !ok {
		return nil, fmt.Errorf("frame: no column %q", name)
	}
	mask := make([]bool, c.Len())
	for i := range mask {
		mask[i] = c.IsMissing(i)
	}
	return mask, nil
}

// CompleteCases returns a per-row vector that is true iff none of the named
// columns is missing in that row.
func CompleteCases(f *Frame, names []string) ([]bool, error) {
	if len(names) == 0 {
		return nil, errors.New("frame: no columns given")
	}
	complete := make([]bool, f.NumRows())
	for i := range complete {
		complete[i] = true
	}
	for _, name := range names {
		c, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("frame: no column %q", name)
		}
		for i := range complete {
			if c.IsMissing(i) {
				complete[i] = false
			}
		}
	}
	return complete, nil
}
