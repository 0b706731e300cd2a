package cli

import (
	"io"
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging points the standard logger at stderr and, when path is set,
// a size-rotated log file as well. The returned closer releases the file.
func setupLogging(stderr io.Writer, path string, verbose bool) io.Closer {
	flags := log.LstdFlags
	if verbose {
		flags |= log.Lmicroseconds | log.Lshortfile
	}
	log.SetFlags(flags)

	if path == "" {
		log.SetOutput(stderr)
		return nopCloser{}
	}

	logWriter := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.SetOutput(io.MultiWriter(stderr, logWriter))
	return logWriter
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
