package dataset

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/baseline/config"
	"github.com/YuminosukeSato/baseline/pkg/errors"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolve_Iris(t *testing.T) {
	ds, err := Resolve(config.DataConfig{Kind: config.KindIris})
	require.NoError(t, err)

	assert.Equal(t, 150, ds.NSamples())
	assert.Equal(t, 4, ds.NFeatures())
	assert.Equal(t, 150, ds.Y.Len())
	assert.Equal(t, []string{"setosa", "versicolor", "virginica"}, ds.ClassNames)
	assert.Equal(t, []int{50, 50, 50}, ds.ClassCounts())
	assert.NotContains(t, ds.FeatureNames, "species")

	assert.Equal(t, 5.1, ds.X.At(0, 0))
	assert.Equal(t, 0.2, ds.X.At(0, 3))
	assert.Equal(t, 5.9, ds.X.At(149, 0))
}

func TestResolve_IrisIsDeterministic(t *testing.T) {
	a := LoadIris()
	b := LoadIris()
	assert.Equal(t, a.X.RawMatrix().Data, b.X.RawMatrix().Data)
	assert.Equal(t, a.Labels(), b.Labels())
}

func TestResolve_CSVExcludesTarget(t *testing.T) {
	path := writeCSV(t, "age,balance,Exited\n42,100.5,1\n35,,0\n51,NA,1\n29,20,0\n")

	ds, err := Resolve(config.DataConfig{Kind: config.KindCSV, Path: path, Target: "Exited"})
	require.NoError(t, err)

	assert.Equal(t, []string{"age", "balance"}, ds.FeatureNames)
	assert.Equal(t, 4, ds.NSamples())
	assert.Equal(t, 2, ds.NFeatures())
	assert.Equal(t, []string{"0", "1"}, ds.ClassNames)
	assert.Equal(t, []int{1, 0, 1, 0}, ds.Labels())
	assert.True(t, math.IsNaN(ds.X.At(1, 1)))
	assert.True(t, math.IsNaN(ds.X.At(2, 1)))
}

func TestResolve_CSVNumericLabelsSortByValue(t *testing.T) {
	path := writeCSV(t, "x,y\n1,10\n2,9\n3,10\n4,9\n")

	ds, err := LoadCSV(path, "y")
	require.NoError(t, err)
	assert.Equal(t, []string{"9", "10"}, ds.ClassNames)
	assert.Equal(t, []int{1, 0, 1, 0}, ds.Labels())
}

func TestResolve_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Resolve(config.DataConfig{Kind: config.KindCSV, Path: filepath.Join(t.TempDir(), "none.csv"), Target: "y"})
		var notFound *errors.NotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Equal(t, errors.ExitData, errors.ExitCode(err))
	})

	t.Run("missing target column", func(t *testing.T) {
		path := writeCSV(t, "a,b\n1,2\n")
		_, err := LoadCSV(path, "label")
		var dataErr *errors.DataError
		require.True(t, errors.As(err, &dataErr))
		assert.Equal(t, "target", dataErr.Field)
	})

	t.Run("non numeric feature", func(t *testing.T) {
		path := writeCSV(t, "city,label\nparis,a\n")
		_, err := LoadCSV(path, "label")
		var dataErr *errors.DataError
		require.True(t, errors.As(err, &dataErr))
		assert.Equal(t, "city", dataErr.Field)
	})

	t.Run("missing label", func(t *testing.T) {
		path := writeCSV(t, "x,label\n1,\n")
		_, err := LoadCSV(path, "label")
		var dataErr *errors.DataError
		require.True(t, errors.As(err, &dataErr))
		assert.Equal(t, "label", dataErr.Field)
	})

	t.Run("header only", func(t *testing.T) {
		path := writeCSV(t, "x,label\n")
		_, err := LoadCSV(path, "label")
		assert.True(t, errors.Is(err, errors.ErrEmptyData))
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := Resolve(config.DataConfig{Kind: "parquet"})
		var cfgErr *errors.ConfigurationError
		require.True(t, errors.As(err, &cfgErr))
		assert.Equal(t, "parquet", cfgErr.Value)
	})
}

func TestDataset_Relabel(t *testing.T) {
	path := writeCSV(t, "x,label\n1,b\n2,c\n3,a\n")
	ds, err := LoadCSV(path, "label")
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, ds.ClassNames)

	relabeled := ds.Relabel([]string{"c", "b"})
	assert.Equal(t, []string{"c", "b", "a"}, relabeled.ClassNames)
	assert.Equal(t, []int{1, 0, 2}, relabeled.Labels())
	assert.Equal(t, []int{1, 2, 0}, ds.Labels(), "original is untouched")
}
