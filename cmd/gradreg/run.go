package main

import (
	"context"
	"io"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/gradreg/dataset"
	"github.com/YuminosukeSato/gradreg/linear"
	"github.com/YuminosukeSato/gradreg/metrics"
	"github.com/YuminosukeSato/gradreg/pkg/errors"
	"github.com/YuminosukeSato/gradreg/pkg/log"
	"github.com/YuminosukeSato/gradreg/preprocessing"
	"github.com/YuminosukeSato/gradreg/report"
)

// progressRecords is how many progress records a run logs at debug level.
const progressRecords = 10

// newLogger builds the logger for cfg and installs it process-wide.
func newLogger(cfg Config, w io.Writer) (log.Logger, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	if cfg.LogFormat == "zerolog" {
		zl := log.NewZerologLogger(w, log.Level(level))
		zl.RouteWarnings()
		log.SetLogger(zl)
		return zl, nil
	}
	log.SetupLoggerWithWriter(w, level)
	return log.GetLogger(), nil
}

// run loads the data, fits theta, writes the requested reports and prints a
// summary to stdout.
func run(ctx context.Context, cfg Config, stdout io.Writer, logger log.Logger) error {
	logger = logger.With(log.ComponentKey, "cmd")

	var loadOpts []dataset.Option
	loadOpts = append(loadOpts, dataset.WithLogger(logger))
	if cfg.GuardZeroVariance {
		loadOpts = append(loadOpts, dataset.WithNormalizerOptions(preprocessing.WithZeroVarianceGuard()))
	}
	ds, err := dataset.Load(cfg.DataPath, loadOpts...)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		log.PathKey, cfg.DataPath,
		log.SamplesKey, ds.M,
		log.FeaturesKey, ds.N,
	)

	start := time.Now()
	res, err := linear.GradientDescent(ds.X, ds.Y, ds.Theta, cfg.Alpha, cfg.Iters, ds.M,
		linear.WithLogger(logger),
		linear.WithProgressEvery(max(cfg.Iters/progressRecords, 1)),
	)
	if err != nil {
		return err
	}

	pred := mat.NewVecDense(ds.M, nil)
	pred.MulVec(ds.X, res.Theta)
	mse, err := metrics.MSE(ds.Y, pred)
	if err != nil {
		return err
	}
	r2, err := metrics.R2Score(ds.Y, pred)
	if err != nil {
		return err
	}
	logger.Info("training finished",
		log.IterationsKey, res.Iterations(),
		log.LearningRateKey, res.Alpha,
		log.LossKey, res.FinalCost(),
		log.R2ScoreKey, r2,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	if err := writeOutputs(ctx, cfg, res, ds.Normalizer, logger); err != nil {
		return err
	}

	return report.Summary(stdout, res,
		report.Metric{Name: "mse", Value: mse},
		report.Metric{Name: "r2", Value: r2},
	)
}

// writeOutputs writes the plot, chart and model files concurrently.
func writeOutputs(ctx context.Context, cfg Config, res *linear.Result, normalizer *preprocessing.Normalizer, logger log.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	write := func(path string, fn func() error) {
		if path == "" {
			return
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(); err != nil {
				return err
			}
			logger.Info("report written", log.OperationKey, log.OperationReport, log.PathKey, path)
			return nil
		})
	}

	write(cfg.PNGPath, func() error {
		return report.SavePlot(cfg.PNGPath, res.CostHistory, report.DefaultPlotOptions())
	})
	write(cfg.HTMLPath, func() error {
		return report.SaveHTML(cfg.HTMLPath, res.CostHistory)
	})
	write(cfg.ModelPath, func() error {
		return saveWeights(cfg.ModelPath, res, normalizer)
	})
	return g.Wait()
}

func saveWeights(path string, res *linear.Result, normalizer *preprocessing.Normalizer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrapf(cerr, "close %s", path)
		}
	}()
	if _, err := res.Weights(normalizer).WriteTo(f); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}
