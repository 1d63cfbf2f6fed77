package util

import "errors"

// ErrParserUnavailable marks parse failures caused by the parser service
// being unreachable or erroring, as opposed to a malformed response.
var ErrParserUnavailable = errors.New("parser unavailable")
