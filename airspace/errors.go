package airspace

import "errors"

// ErrQueueFull is returned by Store.EnqueueCommand when the command
// ring is full. Callers surface it; it is never treated as fatal.
var ErrQueueFull = errors.New("airspace: command queue full")
