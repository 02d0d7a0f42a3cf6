package main

import (
	"flag"
	"io"
	"math"

	"github.com/YuminosukeSato/gradreg/linear"
	"github.com/YuminosukeSato/gradreg/pkg/errors"
	"github.com/YuminosukeSato/gradreg/pkg/log"
)

// LogLevelEnv provides the log level when -log-level is not given.
const LogLevelEnv = "GRADREG_LOG_LEVEL"

// Config holds the command-line settings of one run.
type Config struct {
	DataPath  string
	Alpha     float64
	Iters     int
	PNGPath   string
	HTMLPath  string
	ModelPath string
	LogLevel  string
	LogFormat string
	Profile   string
	// GuardZeroVariance scales constant feature columns by 1 instead of 0.
	GuardZeroVariance bool
}

// parseConfig reads args (without the program name). getenv supplies the
// environment, os.Getenv in production.
func parseConfig(args []string, getenv func(string) string, output io.Writer) (Config, error) {
	var cfg Config
	fs := flag.NewFlagSet("gradreg", flag.ContinueOnError)
	fs.SetOutput(output)

	fs.StringVar(&cfg.DataPath, "data", "", "Path to a headerless CSV file, label in the last column")
	fs.Float64Var(&cfg.Alpha, "alpha", linear.DefaultLearningRate, "Learning rate")
	fs.IntVar(&cfg.Iters, "iters", linear.DefaultNumIters, "Number of gradient descent iterations")
	fs.StringVar(&cfg.PNGPath, "png", "", "Write the cost plot to this file (png, svg or pdf by extension)")
	fs.StringVar(&cfg.HTMLPath, "html", "", "Write an interactive cost chart to this HTML file")
	fs.StringVar(&cfg.ModelPath, "model", "", "Write the fitted weights as JSON to this file")
	fs.StringVar(&cfg.LogLevel, "log-level", "", "Log level: debug, info, warn or error (default $"+LogLevelEnv+" or info)")
	fs.StringVar(&cfg.LogFormat, "log-format", "json", "Log format: json (slog) or zerolog")
	fs.StringVar(&cfg.Profile, "profile", "", "Write a CPU profile into this directory")
	fs.BoolVar(&cfg.GuardZeroVariance, "guard-zero-variance", false, "Treat constant feature columns as having unit scale")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = getenv(LogLevelEnv)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	return cfg, cfg.Validate()
}

// Validate checks the settings before anything is loaded.
func (c Config) Validate() error {
	if c.DataPath == "" {
		return errors.NewValidationError("data", "a CSV path is required", c.DataPath)
	}
	if !(c.Alpha > 0) || math.IsInf(c.Alpha, 0) {
		return errors.NewValidationError("alpha", "learning rate must be positive and finite", c.Alpha)
	}
	if c.Iters < 0 {
		return errors.NewValidationError("iters", "number of iterations must not be negative", c.Iters)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return errors.NewValidationError("log-level", err.Error(), c.LogLevel)
	}
	switch c.LogFormat {
	case "json", "zerolog":
	default:
		return errors.NewValidationError("log-format", "must be json or zerolog", c.LogFormat)
	}
	return nil
}
