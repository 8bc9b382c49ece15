package model

import "errors"

var (
	ErrHintInvalid  = errors.New("recognition hint invalid")
	ErrHintMismatch = errors.New("recognition hint does not match request")
)
