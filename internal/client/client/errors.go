package client

import "errors"

var ErrUnavailable = errors.New("server unavailable")

// remoteError is a failure reported by the server: the matching sentinel
// plus the server's message.
type remoteError struct {
	sentinel error
	message  string
}

func (e *remoteError) Error() string { return e.message }
func (e *remoteError) Unwrap() error { return e.sentinel }
