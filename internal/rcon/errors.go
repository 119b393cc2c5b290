package rcon

import "errors"

var (
	ErrConnectFailed    = errors.New("rcon: connect failed")
	ErrAuthFailed       = errors.New("rcon: authentication rejected")
	ErrNotAuthenticated = errors.New("rcon: not authenticated")
	ErrTimeout          = errors.New("rcon: command timed out")
	ErrConnectionClosed = errors.New("rcon: connection closed")

	// errMalformedFrame never reaches callers directly: a malformed inbound
	// frame tears the session down and pending calls observe
	// ErrConnectionClosed.
	errMalformedFrame = errors.New("rcon: malformed frame")
)
