// Package logging builds the zap logger shared by the server, services, and workers.
package logging

import "go.uber.org/zap"

// New returns a development logger (console, debug level) when debug is true,
// otherwise a production logger (JSON, info level).
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
