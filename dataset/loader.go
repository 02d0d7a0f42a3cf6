// Package dataset loads regression training data from headerless CSV files.
//
// Every column but the last holds a feature and the last holds the label.
// With more than one feature the columns are standardized; a bias column of
// ones is then prepended, so the design matrix has features+1 columns.
package dataset

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradreg/pkg/errors"
	"github.com/YuminosukeSato/gradreg/pkg/log"
	"github.com/YuminosukeSato/gradreg/preprocessing"
)

// Dataset is a design matrix ready for gradient descent.
type Dataset struct {
	// X is the m×n design matrix; column 0 is all ones.
	X *mat.Dense
	// Y holds the m labels.
	Y *mat.VecDense
	// Theta is the zero starting point of length N.
	Theta *mat.VecDense
	// M is the number of examples and N the number of columns of X.
	M, N int
	// Normalizer holds the statistics used to standardize the features, or
	// nil when there was a single feature.
	Normalizer *preprocessing.Normalizer
}

// Features returns the number of feature columns, excluding the bias.
func (d *Dataset) Features() int {
	return d.N - 1
}

// Option configures loading.
type Option func(*loader)

type loader struct {
	logger   log.Logger
	normOpts []preprocessing.NormalizerOption
	source   string
}

// WithLogger sets the logger for the load summary record.
func WithLogger(l log.Logger) Option {
	return func(ld *loader) {
		ld.logger = l
	}
}

// WithNormalizerOptions passes options to the feature normalizer, for
// example preprocessing.WithZeroVarianceGuard().
func WithNormalizerOptions(opts ...preprocessing.NormalizerOption) Option {
	return func(ld *loader) {
		ld.normOpts = append(ld.normOpts, opts...)
	}
}

// Load reads the CSV file at path.
func Load(path string, opts ...Option) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", path)
	}
	defer f.Close()

	ds, err := load(f, path, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: %s", path)
	}
	return ds, nil
}

// LoadReader reads CSV records from r.
func LoadReader(r io.Reader, opts ...Option) (*Dataset, error) {
	return load(r, "", opts)
}

func load(r io.Reader, source string, opts []Option) (*Dataset, error) {
	ld := &loader{source: source}
	for _, opt := range opts {
		opt(ld)
	}
	if ld.logger == nil {
		ld.logger = log.GetLogger()
	}

	features, labels, err := readRecords(r)
	if err != nil {
		return nil, err
	}

	m, k := features.Dims()
	normalized, normalizer, err := preprocessing.NormalizeFeatures(features, ld.normOpts...)
	if err != nil {
		return nil, err
	}
	X, err := preprocessing.AddBias(normalized)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{
		X:          X,
		Y:          labels,
		Theta:      mat.NewVecDense(k+1, nil),
		M:          m,
		N:          k + 1,
		Normalizer: normalizer,
	}

	fields := []any{
		log.OperationKey, log.OperationLoad,
		log.SamplesKey, m,
		log.FeaturesKey, k+1,
		log.NormalizeKey, normalizer != nil,
	}
	if ld.source != "" {
		fields = append(fields, log.PathKey, ld.source)
	}
	ld.logger.Debug("dataset loaded", fields...)
	return ds, nil
}

// readRecords parses every record into a feature matrix and a label vector.
func readRecords(r io.Reader) (*mat.Dense, *mat.VecDense, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var data, labels []float64
	cols := 0
	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "row %d", row)
		}

		if cols == 0 {
			cols = len(record)
			if cols < 2 {
				return nil, nil, errors.NewValidationError("columns",
					"need at least one feature column and a label column", cols)
			}
		}
		for col, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "row %d, column %d", row, col+1)
			}
			if col == cols-1 {
				labels = append(labels, v)
			} else {
				data = append(data, v)
			}
		}
	}

	if len(labels) == 0 {
		return nil, nil, errors.NewModelError("dataset.Load", "no records", errors.ErrEmptyData)
	}
	return mat.NewDense(len(labels), cols-1, data), mat.NewVecDense(len(labels), labels), nil
}
