package users

import "errors"

// Sentinel kinds for profile store errors.
var ErrBadHeader = errors.New("missing required column")
