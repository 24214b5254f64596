package config

import "errors"

var (
	ErrConfig          = errors.New("configuration error")
	ErrTemplateWritten = errors.New("configuration template written")
)
