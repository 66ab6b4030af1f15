// Package logging provides a minimal logging interface and adapters for supportmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the graph engine, agents and tool executor use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	wf, err := support.NewWorkflow(m, registry, func(o *support.Options) { o.Logger = logger })
package logging
