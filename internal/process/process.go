// Package process cleans up browser processes left behind by a renderer.
package process

import "errors"

// ErrInvalidPID is returned for pids that would address the caller's own
// process group.
var ErrInvalidPID = errors.New("invalid pid")
