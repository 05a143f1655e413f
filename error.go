package match

import "errors"

var (
	ErrInvalidParam      = errors.New("the param is invalid")
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrUnknownCommand    = errors.New("unknown command type")
	ErrTimeout           = errors.New("timeout")
	ErrShutdown          = errors.New("matching engine is shutting down")
)
