package pack

import "errors"

var (
	ErrPack = errors.New("packaging failed")
)
