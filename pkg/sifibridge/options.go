package sifibridge

import "log/slog"

// DefaultExecutable is the bridge executable name resolved through PATH when
// no explicit path is configured.
const DefaultExecutable = "sifi_bridge"

type settings struct {
	execPath      string
	dataTransport string
	log           *slog.Logger
}

func defaultSettings() settings {
	return settings{
		execPath: DefaultExecutable,
		log:      slog.Default(),
	}
}

// Option configures a Bridge during New.
type Option func(*settings)

// WithExecutable sets the path to the bridge executable. The default resolves
// "sifi_bridge" through PATH.
func WithExecutable(path string) Option {
	return func(s *settings) { s.execPath = path }
}

// WithDataTransport passes a data transport URI (e.g. "csv://./") to the
// bridge process, making the bridge itself persist the data it handles.
func WithDataTransport(uri string) Option {
	return func(s *settings) { s.dataTransport = uri }
}

// WithLogger sets the logger used for command and protocol logging. The
// default is slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *settings) { s.log = log }
}
