package protocol

import "errors"

// Errors shared across the protocol and controller layers. All of them are
// returned synchronously; the wire protocol itself has no failure signal.
var (
	ErrInvalidConfig   = errors.New("invalid gateway configuration")
	ErrInvalidGroup    = errors.New("group must be between 0 and 4")
	ErrInvalidBulbType = errors.New("invalid bulb type")
	ErrUnknownCommand  = errors.New("unknown command")
	ErrUnknownColor    = errors.New("unknown color")
	ErrIndexOutOfRange = errors.New("gateway index out of range")
)
