package files

import "errors"

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrInvalidConfig = errors.New("invalid files configuration")
)
