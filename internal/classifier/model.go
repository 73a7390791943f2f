package classifier

import (
	_ "embed"
	"math"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/datextract/internal/model"
)

//go:embed default_model.yaml
var defaultModelYAML []byte

// ErrColumnMismatch is returned when a model expects columns the feature
// extractor cannot produce.
var ErrColumnMismatch = eris.New("classifier: model columns not produced by feature extractor")

// Model is a binary logistic regression. Coefficients line up with Columns.
type Model struct {
	Name         string        `yaml:"name"`
	Columns      []string      `yaml:"columns"`
	Coefficients []float64     `yaml:"coefficients"`
	Intercept    float64       `yaml:"intercept"`
	Features     FeatureConfig `yaml:"features"`
}

// DefaultModel returns the model compiled into the binary.
func DefaultModel() *Model {
	m, err := ParseModel(defaultModelYAML)
	if err != nil {
		panic(err)
	}
	return m
}

// LoadModel reads a model from a YAML file.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "classifier: read model %s", path)
	}
	return ParseModel(data)
}

// ParseModel decodes a YAML model and checks that it is self-consistent.
func ParseModel(data []byte) (*Model, error) {
	var wrapper struct {
		Model Model `yaml:"model"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "classifier: parse model")
	}
	m := &wrapper.Model
	if m.Features.Characters == "" {
		m.Features.Characters = DefaultCharacters
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks shape and that every column is produced by the model's
// feature configuration.
func (m *Model) Validate() error {
	if len(m.Columns) == 0 {
		return eris.New("classifier: model has no columns")
	}
	if len(m.Columns) != len(m.Coefficients) {
		return eris.Errorf("classifier: %d columns but %d coefficients", len(m.Columns), len(m.Coefficients))
	}
	seen := make(map[string]bool, len(m.Columns))
	for _, c := range m.Columns {
		if seen[c] {
			return eris.Errorf("classifier: duplicate column %q", c)
		}
		seen[c] = true
		if !m.Features.Produces(c) {
			return eris.Wrapf(ErrColumnMismatch, "classifier: column %q", c)
		}
	}
	return nil
}

// Row orders a feature map by the model's columns. Columns absent from the
// map (bigrams that never occurred) read as zero.
func (m *Model) Row(features map[string]float64) []float64 {
	row := make([]float64, len(m.Columns))
	for i, c := range m.Columns {
		row[i] = features[c]
	}
	return row
}

// PredictProba returns [P(not a date), P(date)] for one feature row.
func (m *Model) PredictProba(row []float64) ([2]float64, error) {
	if len(row) != len(m.Coefficients) {
		return [2]float64{}, eris.Errorf("classifier: row has %d values, model wants %d", len(row), len(m.Coefficients))
	}
	z := m.Intercept
	for i, x := range row {
		z += m.Coefficients[i] * x
	}
	p := 1 / (1 + math.Exp(-z))
	return [2]float64{1 - p, p}, nil
}

// Scorer computes the probability that a span of text is a real date.
type Scorer struct {
	model *Model
}

// NewScorer wraps a validated model.
func NewScorer(m *Model) (*Scorer, error) {
	if m == nil {
		return nil, eris.New("classifier: nil model")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{model: m}, nil
}

// DefaultScorer scores with the embedded model.
func DefaultScorer() *Scorer {
	return &Scorer{model: DefaultModel()}
}

// Model returns the underlying model.
func (s *Scorer) Model() *Model { return s.model }

// Score returns the positive-class probability for the span.
func (s *Scorer) Score(text string, span model.Span) float64 {
	row := s.model.Row(Features(text, span.Start, span.End, s.model.Features))
	proba, err := s.model.PredictProba(row)
	if err != nil {
		// Row always has one value per column.
		return 0
	}
	return proba[1]
}
