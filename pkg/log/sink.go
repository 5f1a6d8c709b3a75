package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/YuminosukeSato/baseline/pkg/errors"
)

// SinkConfig configures a Sink.
type SinkConfig struct {
	// Dir is the directory holding log files. Created if missing.
	Dir string

	// Name prefixes the log file name, typically the entry point ("train").
	Name string

	// Level is the minimum level written to both destinations.
	Level Level

	// Console receives human-readable output. Defaults to os.Stderr.
	Console io.Writer

	// Now stamps the log file name. Defaults to time.Now.
	Now func() time.Time
}

// Sink is the process-wide log destination of an entry point: a timestamped
// JSON-lines file plus a console writer. It is opened once by main, handed
// to the orchestrators as a Logger and closed on exit.
//
// While open, library warnings raised through errors.Warn are routed to the
// sink at warn level.
type Sink struct {
	file     *os.File
	path     string
	provider *ZerologProvider
}

// NewSink creates the log directory and opens <Dir>/<Name>_YYYYMMDD_HHMMSS.log.
func NewSink(cfg SinkConfig) (*Sink, error) {
	if cfg.Name == "" {
		cfg.Name = "baseline"
	}
	if cfg.Console == nil {
		cfg.Console = os.Stderr
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.NewIOError("create log directory", cfg.Dir, err)
	}

	path := filepath.Join(cfg.Dir, fmt.Sprintf("%s_%s.log", cfg.Name, cfg.Now().Format("20060102_150405")))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.NewIOError("open log file", path, err)
	}

	console := zerolog.ConsoleWriter{Out: cfg.Console, TimeFormat: "2006-01-02 15:04:05"}
	s := &Sink{
		file:     file,
		path:     path,
		provider: NewZerologProvider(zerolog.MultiLevelWriter(file, console), cfg.Level),
	}

	warnLogger := s.provider.GetLoggerWithName(cfg.Name)
	errors.SetZerologWarnFunc(func(w error) {
		warnLogger.Warn(w.Error(), WarningKey, w)
	})

	return s, nil
}

// Logger returns the root logger of the sink.
func (s *Sink) Logger() Logger {
	return s.provider.GetLogger()
}

// Provider exposes the sink as a LoggerProvider.
func (s *Sink) Provider() LoggerProvider {
	return s.provider
}

// Path returns the log file path.
func (s *Sink) Path() string {
	return s.path
}

// Close detaches the warning hook and closes the log file.
func (s *Sink) Close() error {
	errors.SetZerologWarnFunc(nil)
	if err := s.file.Close(); err != nil {
		return errors.NewIOError("close log file", s.path, err)
	}
	return nil
}
