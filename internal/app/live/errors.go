package live

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid_request")
	ErrRoomNotFound   = errors.New("room_not_found")
	ErrRoomFull       = errors.New("room_full")
	ErrInvalidState   = errors.New("invalid_state")
	ErrPlayerNotFound = errors.New("player_not_found")
)
