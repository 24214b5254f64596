package schedule

import "errors"

var (
	ErrSchedule = errors.New("scheduling failed")
)
