package cli

import "errors"

// ErrUsage matches errors caused by invalid command-line usage.
var ErrUsage = errors.New("cli usage error")

// ErrRouteConflict is returned by serve when the docs or metrics
// endpoints would claim a path that is already routed.
var ErrRouteConflict = errors.New("route conflict")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}
