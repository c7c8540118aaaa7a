package cfgloader

// Options holds configuration options for MustLoad.
type Options struct {
	// Silent disables printing the loaded config.
	Silent bool
	// Dir is the directory holding the per-environment files. Defaults to ./config.
	Dir string
}

// Option configures MustLoad.
type Option func(*Options)

// WithSilent disables printing the loaded config.
func WithSilent() Option {
	return func(o *Options) {
		o.Silent = true
	}
}

// WithDir reads the config files from dir.
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}
