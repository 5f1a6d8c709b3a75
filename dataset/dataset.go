// Package dataset resolves the labeled tabular data named by the
// configuration into a feature matrix and integer-encoded labels.
package dataset

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/csv"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/baseline/config"
	"github.com/YuminosukeSato/baseline/pkg/errors"
)

//go:embed data/iris.csv
var irisCSV []byte

const irisTarget = "species"

// Dataset is a feature matrix with integer class codes. Code i stands for
// ClassNames[i].
type Dataset struct {
	X            *mat.Dense
	FeatureNames []string
	Y            *mat.VecDense
	ClassNames   []string
}

// NSamples returns the number of rows.
func (d *Dataset) NSamples() int {
	r, _ := d.X.Dims()
	return r
}

// NFeatures returns the number of feature columns.
func (d *Dataset) NFeatures() int {
	_, c := d.X.Dims()
	return c
}

// NClasses returns the number of distinct classes.
func (d *Dataset) NClasses() int {
	return len(d.ClassNames)
}

// ClassCounts returns the number of samples per class code.
func (d *Dataset) ClassCounts() []int {
	counts := make([]int, len(d.ClassNames))
	for i := 0; i < d.Y.Len(); i++ {
		counts[int(d.Y.AtVec(i))]++
	}
	return counts
}

// Resolve returns the dataset described by cfg.
func Resolve(cfg config.DataConfig) (*Dataset, error) {
	switch cfg.Kind {
	case config.KindIris:
		return LoadIris(), nil
	case config.KindCSV:
		return LoadCSV(cfg.Path, cfg.Target)
	default:
		return nil, errors.NewConfigurationError("data.kind", "unknown dataset kind", cfg.Kind)
	}
}

// LoadIris returns Fisher's iris data: 150 samples, 4 features and the
// classes setosa, versicolor and virginica with 50 samples each.
func LoadIris() *Dataset {
	ds, err := parse(bytes.NewReader(irisCSV), irisTarget)
	if err != nil {
		panic(errors.Wrap(err, "embedded iris data is corrupt"))
	}
	return ds
}

// LoadCSV reads a headed CSV file. The target column holds the labels and
// every other column must be numeric. Empty cells and NA, NaN or null are
// read as missing feature values (NaN).
func LoadCSV(path, target string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError("dataset", path)
		}
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	ds, err := parse(bufio.NewReader(f), target)
	if err != nil {
		return nil, errors.Wrapf(err, "read dataset %s", path)
	}
	return ds, nil
}

func parse(r io.Reader, target string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewDataError("header", "file is empty")
	}
	if err != nil {
		return nil, errors.NewDataError("header", err.Error())
	}

	targetCol := -1
	featureNames := make([]string, 0, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == target {
			targetCol = i
			continue
		}
		featureNames = append(featureNames, name)
	}
	if targetCol < 0 {
		return nil, errors.NewDataError("target", "column '"+target+"' not found in header")
	}
	if len(featureNames) == 0 {
		return nil, errors.NewDataError("features", "no feature columns besides the target")
	}

	var (
		values []float64
		labels []string
		line   = 1
	)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewDataError("row", err.Error())
		}

		label := strings.TrimSpace(rec[targetCol])
		if isMissing(label) {
			return nil, errors.NewDataError(target, "missing label on line "+strconv.Itoa(line))
		}
		labels = append(labels, label)

		j := 0
		for i, cell := range rec {
			if i == targetCol {
				continue
			}
			v, err := parseFeature(cell)
			if err != nil {
				return nil, errors.NewDataError(featureNames[j],
					"non-numeric value '"+cell+"' on line "+strconv.Itoa(line))
			}
			values = append(values, v)
			j++
		}
	}
	if len(labels) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "dataset has a header but no rows")
	}

	classNames := sortClassNames(labels)
	codes := make(map[string]int, len(classNames))
	for i, name := range classNames {
		codes[name] = i
	}
	y := mat.NewVecDense(len(labels), nil)
	for i, label := range labels {
		y.SetVec(i, float64(codes[label]))
	}

	return &Dataset{
		X:            mat.NewDense(len(labels), len(featureNames), values),
		FeatureNames: featureNames,
		Y:            y,
		ClassNames:   classNames,
	}, nil
}

func isMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NA", "NaN", "nan", "null":
		return true
	}
	return false
}

func parseFeature(cell string) (float64, error) {
	if isMissing(cell) {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(strings.TrimSpace(cell), 64)
}

// sortClassNames returns the distinct labels, ordered numerically when every
// label is a number and lexicographically otherwise.
func sortClassNames(labels []string) []string {
	seen := make(map[string]struct{}, 8)
	names := make([]string, 0, 8)
	for _, label := range labels {
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		names = append(names, label)
	}

	numeric := make(map[string]float64, len(names))
	for _, name := range names {
		v, err := strconv.ParseFloat(name, 64)
		if err != nil {
			numeric = nil
			break
		}
		numeric[name] = v
	}

	if numeric != nil {
		sort.SliceStable(names, func(i, j int) bool {
			return numeric[names[i]] < numeric[names[j]]
		})
	} else {
		sort.Strings(names)
	}
	return names
}

// Relabel returns a copy of d whose codes refer to classNames. Labels that
// classNames does not contain are appended after the known classes, so their
// codes never collide with a trained class.
func (d *Dataset) Relabel(classNames []string) *Dataset {
	codes := make(map[string]int, len(classNames))
	merged := make([]string, len(classNames), len(classNames)+len(d.ClassNames))
	copy(merged, classNames)
	for i, name := range classNames {
		codes[name] = i
	}
	for _, name := range d.ClassNames {
		if _, ok := codes[name]; !ok {
			codes[name] = len(merged)
			merged = append(merged, name)
		}
	}

	y := mat.NewVecDense(d.Y.Len(), nil)
	for i := 0; i < d.Y.Len(); i++ {
		y.SetVec(i, float64(codes[d.ClassNames[int(d.Y.AtVec(i))]]))
	}

	return &Dataset{
		X:            d.X,
		FeatureNames: d.FeatureNames,
		Y:            y,
		ClassNames:   merged,
	}
}

// Labels returns the class codes as ints.
func (d *Dataset) Labels() []int {
	out := make([]int, d.Y.Len())
	for i := range out {
		out[i] = int(d.Y.AtVec(i))
	}
	return out
}
