package artifacts

import (
	"io"
	"strconv"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// 描画サイズ
const (
	plotWidth  = 6 * vg.Inch
	plotHeight = 5 * vg.Inch
)

// confusionGrid adapts a square confusion matrix to plotter.GridXYZ.
// Grid column c is predicted class c; grid row r is true class n-1-r so the
// first class is drawn at the top.
type confusionGrid struct {
	cm *mat.Dense
	n  int
}

func (g confusionGrid) Dims() (c, r int)   { return g.n, g.n }
func (g confusionGrid) Z(c, r int) float64 { return g.cm.At(g.n-1-r, c) }
func (g confusionGrid) X(c int) float64    { return float64(c) }
func (g confusionGrid) Y(r int) float64    { return float64(r) }

// RenderConfusionMatrix writes a PNG heat map of cm to w. Rows of cm are
// true labels and columns predicted labels, both named by classNames. Each
// cell is annotated with its count.
func RenderConfusionMatrix(w io.Writer, cm *mat.Dense, classNames []string) error {
	r, c := cm.Dims()
	if r == 0 || r != c {
		return errors.NewDimensionError("RenderConfusionMatrix", r, c, 1)
	}
	if len(classNames) != r {
		return errors.NewDimensionError("RenderConfusionMatrix", r, len(classNames), 0)
	}

	return errors.SafeExecute("render confusion matrix", func() error {
		p, err := confusionPlot(cm, classNames)
		if err != nil {
			return err
		}
		wt, err := p.WriterTo(plotWidth, plotHeight, "png")
		if err != nil {
			return errors.Wrap(err, "failed to render confusion matrix")
		}
		_, err = wt.WriteTo(w)
		return err
	})
}

func confusionPlot(cm *mat.Dense, classNames []string) (*plot.Plot, error) {
	n := len(classNames)

	cmap := moreland.SmoothBlueRed()
	cmap.SetMin(0)
	cmap.SetMax(1)

	heat := plotter.NewHeatMap(confusionGrid{cm: cm, n: n}, cmap.Palette(255))
	heat.Min = 0
	heat.Max = mat.Max(cm)
	if heat.Max <= heat.Min {
		heat.Max = heat.Min + 1
	}

	xys := make(plotter.XYs, 0, n*n)
	texts := make([]string, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			xys = append(xys, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
			texts = append(texts, strconv.Itoa(int(cm.At(i, j))))
		}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, errors.Wrap(err, "failed to build cell labels")
	}

	p := plot.New()
	p.Title.Text = "Confusion Matrix"
	p.X.Label.Text = "Pred"
	p.Y.Label.Text = "True"
	p.Add(heat, labels)

	reversed := make([]string, n)
	for i, name := range classNames {
		reversed[n-1-i] = name
	}
	p.NominalX(classNames...)
	p.NominalY(reversed...)

	return p, nil
}

// WriteConfusionMatrix stages ConfusionMatrixFile.
func (st *Staging) WriteConfusionMatrix(cm *mat.Dense, classNames []string) error {
	return st.Write(ConfusionMatrixFile, func(w io.Writer) error {
		return RenderConfusionMatrix(w, cm, classNames)
	})
}
