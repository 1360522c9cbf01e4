package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"

	"golang.org/x/exp/rand"

	"github.com/ashimb9/VIM/pkg/frame"
	"github.com/ashimb9/VIM/pkg/impute"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

//
// ---------------------- CLI FLAGS DOCUMENTATION ----------------------
//
// --input         : Path to input CSV file ("", "NA", "NaN" mark missing cells)
// --formula       : Imputation formula, e.g. "age + income ~ height + weight"
// --robust        : Use outlier-resistant fitting variants
// --deterministic : Resolve categorical predictions by threshold/argmax instead of sampling
// --suffix        : Status column suffix. Default = imp
// --seed          : Random seed for stochastic draws. 0 = time-seeded
// --output        : Path to save the imputed CSV. Empty = no file output
// --preview       : Number of rows to preview in console
// --plot          : Path for a PNG scatter of the first numeric target (imputed cells highlighted)
//
// Example:
//   go run main.go --input sleep.csv --formula "Dream + NonD ~ BodyWgt + BrainWgt" --deterministic
//
// ---------------------------------------------------------------------
//

// previewFrame prints the first n rows of the frame with headers.
func previewFrame(f *frame.Frame, n int) {
	if n > f.NumRows() {
		n = f.NumRows()
	}
	for _, name := range f.Names() {
		fmt.Printf("%-15s", name)
	}
	fmt.Println()
	for i := 0; i < n; i++ {
		for _, name := range f.Names() {
			col, _ := f.Column(name)
			fmt.Printf("%-15s", cellText(col, i))
		}
		fmt.Println()
	}
}

func cellText(c frame.Column, i int) string {
	if c.IsMissing(i) {
		return "NA"
	}
	switch col := c.(type) {
	case *frame.NumericColumn:
		return fmt.Sprintf("%.4f", col.Values[i])
	case *frame.CategoricalColumn:
		return col.Label(i)
	case *frame.BoolColumn:
		return fmt.Sprintf("%v", col.Values[i])
	}
	return "?"
}

// plotImputed draws the target column against the row index, with the cells
// filled in by the imputation drawn in red.
func plotImputed(f *frame.Frame, target, statusName, path string) error {
	col, ok := f.Column(target)
	if !ok {
		return fmt.Errorf("no column %q", target)
	}
	num, ok := col.(*frame.NumericColumn)
	if !ok {
		return fmt.Errorf("column %q is not numeric", target)
	}
	statusCol, ok := f.Column(statusName)
	if !ok {
		return fmt.Errorf("no status column %q", statusName)
	}
	status := statusCol.(*frame.BoolColumn)

	var observed, imputed plotter.XYs
	for i, v := range num.Values {
		if col.IsMissing(i) {
			continue
		}
		pt := plotter.XY{X: float64(i), Y: v}
		if status.Values[i] {
			imputed = append(imputed, pt)
		} else {
			observed = append(observed, pt)
		}
	}

	p := plot.New()
	p.Title.Text = "Imputed values of " + target
	p.X.Label.Text = "row"
	p.Y.Label.Text = target

	obs, err := plotter.NewScatter(observed)
	if err != nil {
		return err
	}
	obs.GlyphStyle.Shape = draw.CircleGlyph{}
	obs.GlyphStyle.Color = color.RGBA{B: 200, A: 255}

	imp, err := plotter.NewScatter(imputed)
	if err != nil {
		return err
	}
	imp.GlyphStyle.Shape = draw.PyramidGlyph{}
	imp.GlyphStyle.Color = color.RGBA{R: 220, A: 255}

	p.Add(obs, imp)
	p.Legend.Add("observed", obs)
	p.Legend.Add("imputed", imp)
	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func main() {
	input := flag.String("input", "", "input CSV path")
	spec := flag.String("formula", "", "imputation formula, targets ~ predictors")
	robust := flag.Bool("robust", false, "use robust fitting variants")
	deterministic := flag.Bool("deterministic", false, "deterministic categorical draws")
	suffix := flag.String("suffix", impute.DefaultSuffix, "status column suffix")
	seed := flag.Uint64("seed", 0, "random seed (0 = time-seeded)")
	output := flag.String("output", "", "output CSV path")
	preview := flag.Int("preview", 10, "rows to preview")
	plotPath := flag.String("plot", "", "PNG path for a scatter of the first numeric target")
	flag.Parse()

	if *input == "" || *spec == "" {
		flag.Usage()
		os.Exit(2)
	}

	file, err := os.Open(*input)
	if err != nil {
		log.Fatalf("opening input: %v", err)
	}
	f, err := frame.ReadCSV(file)
	file.Close()
	if err != nil {
		log.Fatalf("reading input: %v", err)
	}

	imputer := impute.NewRegression()
	imputer.Robust = *robust
	imputer.ModCat = *deterministic
	imputer.Suffix = *suffix
	imputer.Log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *seed != 0 {
		imputer.Src = rand.NewSource(*seed)
	}

	if err := imputer.Impute(f, *spec); err != nil {
		log.Fatalf("imputation: %v", err)
	}

	previewFrame(f, *preview)

	if *output != "" {
		out, err := os.Create(*output)
		if err != nil {
			log.Fatalf("creating output: %v", err)
		}
		if err := frame.WriteCSV(out, f); err != nil {
			log.Fatalf("writing output: %v", err)
		}
		out.Close()
		fmt.Println("saved imputed data to", *output)
	}

	if *plotPath != "" {
		for _, name := range f.Names() {
			col, _ := f.Column(name)
			if _, ok := col.(*frame.NumericColumn); !ok {
				continue
			}
			statusName := name + "_" + *suffix
			if !f.Has(statusName) {
				continue
			}
			if err := plotImputed(f, name, statusName, *plotPath); err != nil {
				log.Fatalf("plotting: %v", err)
			}
			fmt.Println("saved plot to", *plotPath)
			break
		}
	}
}
