package retry

import "errors"

// ErrInvalidResult is returned when every attempt produced a response that
// failed the validity predicate without a transport error.
var ErrInvalidResult = errors.New("retry: no valid result")
