package soapenc

import "sync"

// A Config holds the settings used to encode and decode SOAP
// messages. A Config may be used by multiple goroutines at once,
// once it has been configured.
type Config struct {
	logger     Logger
	loglevel   int
	namespace  string
	version    Version
	xsiTypes   bool
	strictRefs bool
	indent     int

	mu      sync.Mutex
	mapping *TypeMapping
}

// NewConfig returns a Config with DefaultOptions applied, followed
// by opts.
func NewConfig(opts ...Option) *Config {
	cfg := new(Config)
	cfg.Option(DefaultOptions...)
	cfg.Option(opts...)
	return cfg
}

func (cfg *Config) logf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 0 {
		cfg.logger.Printf(format, v...)
	}
}

func (cfg *Config) debugf(format string, v ...interface{}) {
	if cfg.logger != nil && cfg.loglevel > 3 {
		cfg.logger.Printf(format, v...)
	}
}

// TypeMapping returns the TypeMapping used by cfg, creating it if
// needed.
func (cfg *Config) TypeMapping() *TypeMapping {
	cfg.mu.Lock()
	defer cfg.mu.Unlock()
	if cfg.mapping == nil {
		cfg.mapping = NewTypeMapping(cfg.namespace)
	}
	return cfg.mapping
}

// An Option is used to customize a Config.
type Option func(*Config) Option

// DefaultOptions are the options used by the top-level Marshal and
// Unmarshal functions, and by NewConfig.
var DefaultOptions = []Option{
	Namespace(DefaultNamespace),
	SOAPVersion(SOAP11),
	WriteXSITypes(true),
}

// The Option method is used to configure an existing configuration.
// The return value of the Option method can be used to revert the
// final option to its previous setting.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// Types implementing the Logger interface can receive
// debug information about the encoding and decoding of messages.
// The Logger interface is implemented by *log.Logger.
type Logger interface {
	Printf(format string, v ...interface{})
}

// LogOutput specifies an optional Logger for warnings and debug
// information.
func LogOutput(l Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return LogOutput(prev)
	}
}

// LogLevel sets the verbosity of messages sent to the error log
// configured with the LogOutput option. The level parameter should
// be a positive integer between 1 and 5, with 5 providing the greatest
// verbosity.
func LogLevel(level int) Option {
	return func(cfg *Config) Option {
		prev := cfg.loglevel
		cfg.loglevel = level
		return LogLevel(prev)
	}
}

// Namespace sets the namespace of the schema types derived from Go
// types. It has no effect once the Config's TypeMapping is in use.
func Namespace(ns string) Option {
	return func(cfg *Config) Option {
		prev := cfg.namespace
		cfg.namespace = ns
		return Namespace(prev)
	}
}

// SOAPVersion selects the envelope written by Marshal. Unmarshal
// accepts both versions regardless of this setting.
func SOAPVersion(v Version) Option {
	return func(cfg *Config) Option {
		prev := cfg.version
		cfg.version = v
		return SOAPVersion(prev)
	}
}

// WriteXSITypes controls whether trailing blocks carry an
// xsi:type attribute naming their type.
func WriteXSITypes(enabled bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.xsiTypes
		cfg.xsiTypes = enabled
		return WriteXSITypes(prev)
	}
}

// StrictReferences makes Unmarshal fail if a reference in the
// message names an id that no element in the message defines. By
// default such references are logged and the referencing value is
// left as its zero value.
func StrictReferences(enabled bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.strictRefs
		cfg.strictRefs = enabled
		return StrictReferences(prev)
	}
}

// Indent sets the number of spaces used to indent each level of the
// documents produced by Marshal. Zero disables indentation.
func Indent(spaces int) Option {
	return func(cfg *Config) Option {
		prev := cfg.indent
		cfg.indent = spaces
		return Indent(prev)
	}
}

// WithMapping makes the Config use an existing TypeMapping, so that
// types bound or registered on it are shared.
func WithMapping(m *TypeMapping) Option {
	return func(cfg *Config) Option {
		cfg.mu.Lock()
		prev := cfg.mapping
		cfg.mapping = m
		cfg.mu.Unlock()
		return WithMapping(prev)
	}
}
