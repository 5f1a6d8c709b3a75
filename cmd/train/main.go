// Command train fits the configured pipeline and writes the model bundle,
// metrics.json and confusion_matrix.png into the artifact directory.
//
// Usage:
//
//	train [-config config/train.yaml]
package main

import (
	"encoding/json"
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
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", config.DefaultPath, "path to the YAML configuration")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return errors.ExitOK
		}
		return errors.ExitConfiguration
	}

	// ログのセットアップ (sink を開く前の失敗用)
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
		Name:    "train",
		Level:   cfg.LogLevel(),
		Console: stderr,
	})
	if err != nil {
		return fail(fallback, stderr, err)
	}
	defer sink.Close()

	logger := sink.Logger().With(log.ComponentKey, "cmd/train")
	logger.Info("Configuration loaded",
		log.ConfigPathKey, *configPath,
		log.LogFileKey, sink.Path(),
	)

	result, err := experiment.Train(cfg, experiment.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(stderr, "train: %v\n", err)
		return errors.ExitCode(err)
	}

	scores, err := json.Marshal(result.Scores)
	if err != nil {
		fmt.Fprintf(stderr, "train: %v\n", err)
		return errors.ExitFailure
	}
	fmt.Fprintf(stdout, "Train OK: %s\n", scores)
	return errors.ExitOK
}

func fail(logger *slog.Logger, stderr io.Writer, err error) int {
	logger.Error("train failed", log.ErrAttr(err))
	fmt.Fprintf(stderr, "train: %v\n", err)
	return errors.ExitCode(err)
}
