package httpserver

import "errors"

var (
	// ErrStart wraps bind and serve failures.
	ErrStart = errors.New("http server failed to start")

	// ErrAlreadyRunning is returned by Run on a server that is already serving.
	ErrAlreadyRunning = errors.New("http server already running")

	// ErrShutdown wraps failures to drain in-flight requests before the shutdown timeout.
	ErrShutdown = errors.New("http server shutdown incomplete")
)
