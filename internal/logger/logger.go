package logger

import (
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu  sync.RWMutex
	out io.Writer = os.Stdout
)

type FileConfig struct {
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Setup sets the global level and, when a file name is given, tees every
// module logger into a rotating file next to stdout.
func Setup(level zerolog.Level, fc *FileConfig) io.Closer {
	zerolog.SetGlobalLevel(level)

	if fc == nil || fc.Filename == "" {
		return io.NopCloser(nil)
	}

	fileLogger := &lumberjack.Logger{
		Filename:   fc.Filename,
		MaxSize:    fc.MaxSizeMB,
		MaxBackups: fc.MaxBackups,
		MaxAge:     fc.MaxAgeDays,
		Compress:   true,
	}

	mu.Lock()
	out = io.MultiWriter(os.Stdout, fileLogger)
	mu.Unlock()

	return fileLogger
}

func New(module string) zerolog.Logger {
	mu.RLock()
	w := out
	mu.RUnlock()
	return zerolog.New(w).With().Str("Module", module).Timestamp().Logger()
}
