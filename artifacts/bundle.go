package artifacts

import (
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/YuminosukeSato/baseline/core/model"
	"github.com/YuminosukeSato/baseline/metrics"
	"github.com/YuminosukeSato/baseline/pkg/errors"
	"github.com/YuminosukeSato/baseline/sklearn/pipeline"
)

// Bundle is the persisted unit of a training run: the fitted pipeline plus
// the metadata evaluation needs to map labels by name.
type Bundle struct {
	Pipeline     *pipeline.Pipeline
	FeatureNames []string
	ClassNames   []string
	ModelName    string
	// Hyperparams holds the effective model parameters formatted with %v.
	Hyperparams map[string]string
	CreatedAt   time.Time
	RunID       string
	Metrics     metrics.Scores
}

// FormatParams renders estimator parameters for a Bundle.
func FormatParams(params map[string]interface{}) map[string]string {
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}

// ParamNames returns the hyperparameter names in sorted order.
func (b *Bundle) ParamNames() []string {
	names := make([]string, 0, len(b.Hyperparams))
	for k := range b.Hyperparams {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// WriteBundle stages b as ModelFile.
func (st *Staging) WriteBundle(b *Bundle) error {
	if b == nil || b.Pipeline == nil || !b.Pipeline.IsFitted() {
		return errors.NewValueError("WriteBundle", "bundle holds no fitted pipeline")
	}
	return st.Write(ModelFile, func(w io.Writer) error {
		return model.SaveModelToWriter(b, w)
	})
}

// LoadBundle reads ModelFile from the store. A missing, unreadable or
// undecodable file is reported as an ArtifactNotFoundError.
func (s *Store) LoadBundle() (*Bundle, error) {
	path := s.Path(ModelFile)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewArtifactNotFoundError(path, err)
	}
	defer f.Close()

	var b Bundle
	if err := model.LoadModelFromReader(&b, f); err != nil {
		return nil, errors.NewArtifactNotFoundError(path, err)
	}
	if b.Pipeline == nil || !b.Pipeline.IsFitted() {
		return nil, errors.NewArtifactNotFoundError(path, errors.New("bundle holds no fitted pipeline"))
	}
	return &b, nil
}
