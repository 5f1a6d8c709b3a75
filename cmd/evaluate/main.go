// Command evaluate loads the bundle written by train, predicts the
// configured dataset and writes report.json into the artifact directory.
//
// Usage:
//
//	evaluate [-config config/train.yaml]
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/YuminosukeSato/baseline/config"
	"github.com/YuminosukeSato/baseline/experiment"
	"github.com/YuminosukeSato/baseline/pkg/errors"
	"github.com/YuminosukeSato/baseline/pkg/log"
	"github.com/YuminosukeSato/baseline/sklearn/linear_model"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("evaluate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", config.DefaultPath, "path to the YAML configuration")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errors.ExitOK
		}
		return errors.ExitConfiguration
	}

	fallback := log.SetupLogger(stderr, log.LevelError)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fail(fallback, stderr, err)
	}
	// 未知のモデル名はログファイルを作る前に弾く
	if _, err := linear_model.BuildModel(cfg.Model); err != nil {
		return fail(fallback, stderr, err)
	}

	sink, err := log.NewSink(log.SinkConfig{
		Dir:     cfg.Logging.Dir,
		Name:    "evaluate",
		Level:   cfg.LogLevel(),
		Console: stderr,
	})
	if err != nil {
		return fail(fallback, stderr, err)
	}
	defer sink.Close()

	logger := sink.Logger().With(log.ComponentKey, "cmd/evaluate")
	logger.Info("Configuration loaded",
		log.ConfigPathKey, *configPath,
		log.LogFileKey, sink.Path(),
	)

	result, err := experiment.Evaluate(cfg, experiment.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "evaluate: %v\n", err)
		return errors.ExitCode(err)
	}

	fmt.Fprintf(stdout, "Evaluate OK: %s\n", result.ReportPath)
	return errors.ExitOK
}

func fail(logger *slog.Logger, stderr io.Writer, err error) int {
	logger.Error("evaluate failed", log.ErrAttr(err))
	fmt.Fprintf(stderr, "evaluate: %v\n", err)
	return errors.ExitCode(err)
}
