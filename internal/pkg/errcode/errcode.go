package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrInvalid
	ErrTooMany
	ErrInternal
	ErrInvalidFile
	ErrFileTooLarge
	ErrUpstream
	ErrAIUnavailable
)
