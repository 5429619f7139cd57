package app

import "errors"

// ErrNotFound reports that no task matches the requested id.
var ErrNotFound = errors.New("not found")
