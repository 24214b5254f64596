package prompt

import "errors"

var (
	ErrInputClosed = errors.New("input closed")
)
