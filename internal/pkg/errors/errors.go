package errors

import "errors"

var (
	ErrInvalid     = errors.New("invalid")
	ErrTooLarge    = errors.New("payload too large")
	ErrTooMany     = errors.New("too many requests")
	ErrUnavailable = errors.New("ai unavailable")
	ErrUpstream    = errors.New("upstream failure")
	ErrInternal    = errors.New("internal")
)

func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalid)
}

func IsUpstream(err error) bool {
	return errors.Is(err, ErrUpstream) || errors.Is(err, ErrUnavailable)
}
