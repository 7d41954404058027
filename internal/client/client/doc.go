// Package client is the client side of the Cipher wire contract.
//
// GRPCClient manages the connection, keeps the current access token and
// attaches it to every call through a unary interceptor. Failed calls are
// mapped back to the sentinel errors of package common using the ErrorInfo
// reason sent by the server, so callers can match them with errors.Is.
// A server that cannot be reached yields ErrUnavailable.
package client
