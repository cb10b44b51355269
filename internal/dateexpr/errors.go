package dateexpr

import "errors"

var (
	errMalformed  = errors.New("malformed date component")
	errOutOfRange = errors.New("date component out of range")
	errPartCount  = errors.New("wrong number of date components")
)
