package exodus

import (
	"io"

	"github.com/charmbracelet/log"
)

// Option configures file creation.
type Option func(*options)

type options struct {
	wordSize int
	logger   *log.Logger
}

func defaultOptions() *options {
	return &options{
		wordSize: 8,
		logger:   log.New(io.Discard),
	}
}

// WithWordSize sets the floating-point storage width in bytes: 4 for single
// precision, 8 for double (the default). Inputs are converted on write.
func WithWordSize(size int) Option {
	return func(o *options) {
		o.wordSize = size
	}
}

// WithLogger sets a logger for debug traces of schema operations. The
// default discards all output.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
