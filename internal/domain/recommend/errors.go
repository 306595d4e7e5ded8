package recommend

import "errors"

// Sentinel kinds for recommendation errors.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrEmptyCatalog      = errors.New("empty catalog")
	ErrInvalidParameters = errors.New("invalid parameters")
)
