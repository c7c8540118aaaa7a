package pagination

const (
	defaultPageSize    = 10
	defaultMaxPageSize = 100
)

// Options configures how a Request is normalized.
type Options struct {
	DefaultPageSize int
	// MaxPageSize caps the page size. Zero leaves it uncapped.
	MaxPageSize int
}

type Option func(*Options)

func WithDefaultPageSize(size int) Option {
	return func(o *Options) {
		o.DefaultPageSize = size
	}
}

func WithMaxPageSize(maxSize int) Option {
	return func(o *Options) {
		o.MaxPageSize = maxSize
	}
}

func defaultOptions() Options {
	return Options{DefaultPageSize: defaultPageSize, MaxPageSize: defaultMaxPageSize}
}
