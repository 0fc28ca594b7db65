// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config describes where and how much to log.
type Config struct {
	Level      string `json:"level" yaml:"level"`
	IncludeSrc bool   `json:"include_src" yaml:"include_src"`
	ToFile     bool   `json:"to_file" yaml:"to_file"`
	Filename   string `json:"filename" yaml:"filename"`
	MaxSize    int    `json:"max_size" yaml:"max_size"`       // megabytes
	MaxAge     int    `json:"max_age" yaml:"max_age"`         // days
	MaxBackups int    `json:"max_backups" yaml:"max_backups"` // files
	Compress   bool   `json:"compress" yaml:"compress"`
}

// New creates a JSON logger writing to w and, if conf.ToFile is set, to a
// size-rotated file as well. The returned closer closes the file, if any.
func New(conf Config, w io.Writer) (*slog.Logger, io.Closer) {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(conf.Level),
		AddSource: conf.IncludeSrc,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				source, _ := a.Value.Any().(*slog.Source)
				if source != nil {
					source.File = filepath.Base(source.File)
					source.Function = strings.TrimPrefix(source.Function, "github.com/zephyrtronium/keycalc/")
				}
			}
			return a
		},
	}

	var closer io.Closer = nopCloser{}
	if conf.ToFile && conf.Filename != "" {
		target := &lumberjack.Logger{
			Filename:   conf.Filename,
			MaxSize:    conf.MaxSize,
			MaxAge:     conf.MaxAge,
			MaxBackups: conf.MaxBackups,
			Compress:   conf.Compress,
		}
		w = io.MultiWriter(w, target)
		closer = target
	}
	return slog.New(slog.NewJSONHandler(w, opts)), closer
}

// Init creates a logger writing to stdout with New and makes it the default.
func Init(conf Config) io.Closer {
	logger, closer := New(conf, os.Stdout)
	slog.SetDefault(logger)
	return closer
}

// ParseLevel converts a level name to a slog level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
