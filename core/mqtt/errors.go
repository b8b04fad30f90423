package mqtt

import "errors"

// ErrPublish is returned when every publish attempt failed.
var ErrPublish = errors.New("publish failed")
