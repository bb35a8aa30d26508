package rewards

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrConflict       = errors.New("conflict")
	ErrUserNotFound   = errors.New("user_not_found")
)
