package docker

import "errors"

var (
	ErrDocker        = errors.New("docker error")
	ErrCommandFailed = errors.New("docker command failed")
)
