// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stdout and, when path is not empty, appending
// to the file at path. The returned closer releases the file.
func New(level, path string) (*logrus.Logger, io.Closer, error) {
	return newLogger(level, path, os.Stdout)
}

func newLogger(level, path string, console io.Writer) (*logrus.Logger, io.Closer, error) {
	log := logrus.New()
	log.SetReportCaller(true)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05",
		DisableColors:    true,
		CallerPrettyfier: callerFunc,
	})

	out := console
	var closer io.Closer = nopCloser{}
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, nil, fmt.Errorf("create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640) //nolint:gosec // operator-supplied path
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(console, f)
		closer = f
	}
	log.SetOutput(out)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		log.SetLevel(logrus.InfoLevel)
		log.Warnf("invalid log level %q, defaulting to info", level)
	} else {
		log.SetLevel(lvl)
	}

	return log, closer, nil
}

// callerFunc keeps only the short function name, the file is dropped.
func callerFunc(f *runtime.Frame) (string, string) {
	return filepath.Base(f.Function), ""
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
