package archive

import "errors"

var (
	ErrArchive = errors.New("archive operation failed")
)
