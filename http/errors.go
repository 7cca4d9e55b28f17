package http

import "errors"

// ErrBodyTooLarge is returned when a request body exceeds the accepted size.
var ErrBodyTooLarge = errors.New("request body too large")
