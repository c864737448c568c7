// Package applog wires logrus to rotating log files.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileExt = "log"

	defaultMaxSizeMB  = 50
	defaultMaxBackups = 10
)

// Options configures Setup
type Options struct {
	Name string
	Dir  string

	Debug bool

	MaxAge     int
	MaxSizeMB  int
	MaxBackups int

	EnableCriticalLog bool
	EnableConsoleLog  bool

	// Console overrides os.Stdout, mainly for tests.
	Console io.Writer

	// Fields are added to every entry, e.g. a run id.
	Fields log.Fields
}

// Validate rejects options that would fail at write time
func (o Options) Validate() error {
	if o.Name == "" {
		return fmt.Errorf("log name is required")
	}
	if o.Dir != "" {
		if info, err := os.Stat(o.Dir); err == nil && !info.IsDir() {
			return fmt.Errorf("log dir %s exists and is a file", o.Dir)
		}
	}
	if o.MaxAge < 0 || o.MaxSizeMB < 0 || o.MaxBackups < 0 {
		return fmt.Errorf("log rotation values must not be negative")
	}
	return nil
}

// Setup points logger at a rotating main file, an optional critical file and
// the console. The returned Closer flushes and closes the files.
func Setup(logger *log.Logger, opts Options) (io.Closer, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid log options: %w", err)
	}

	dir := opts.Dir
	if dir == "" {
		dir = "logs"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log dir: %w", err)
	}

	maxSize := opts.MaxSizeMB
	if maxSize == 0 {
		maxSize = defaultMaxSizeMB
	}
	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = defaultMaxBackups
	}

	newFile := func(suffix string) *lumberjack.Logger {
		return &lumberjack.Logger{
			Filename:   filepath.Join(dir, fmt.Sprintf("%s%s.%s", opts.Name, suffix, fileExt)),
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			MaxAge:     opts.MaxAge,
			LocalTime:  true,
		}
	}

	mainFile := newFile("")
	c := &closer{closers: []io.Closer{mainFile}}

	writers := []io.Writer{mainFile}
	if opts.EnableConsoleLog {
		console := opts.Console
		if console == nil {
			console = os.Stdout
		}
		writers = append(writers, console)
	}

	logger.SetOutput(io.MultiWriter(writers...))
	logger.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   true,
	})

	level := log.InfoLevel
	if opts.Debug {
		level = log.DebugLevel
	}
	logger.SetLevel(level)

	if len(opts.Fields) > 0 {
		logger.AddHook(&fieldsHook{fields: opts.Fields})
	}

	if opts.EnableCriticalLog {
		criticalFile := newFile(".critical")
		c.closers = append(c.closers, criticalFile)
		logger.AddHook(&criticalHook{writer: criticalFile, formatter: logger.Formatter})
	}

	log.RegisterExitHandler(func() {
		_ = c.Close()
	})

	return c, nil
}

// NewRunID returns an identifier attached to every log line of one run
func NewRunID() string {
	return uuid.NewString()
}

// fieldsHook stamps constant fields on entries that do not set them.
type fieldsHook struct {
	fields log.Fields
}

func (h *fieldsHook) Levels() []log.Level { return log.AllLevels }

func (h *fieldsHook) Fire(entry *log.Entry) error {
	for k, v := range h.fields {
		if _, ok := entry.Data[k]; !ok {
			entry.Data[k] = v
		}
	}
	return nil
}

// criticalHook copies error and worse entries to a separate file.
type criticalHook struct {
	writer    io.Writer
	formatter log.Formatter
}

func (h *criticalHook) Levels() []log.Level {
	return []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel}
}

func (h *criticalHook) Fire(entry *log.Entry) error {
	msg, err := h.formatter.Format(entry)
	if err != nil {
		return err
	}
	_, err = h.writer.Write(msg)
	return err
}

type closer struct {
	closers []io.Closer
}

func (c *closer) Close() error {
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
