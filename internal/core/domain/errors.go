package domain

import "errors"

var (
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomOccupied    = errors.New("room already occupied")
	ErrHostAbsent      = errors.New("host not present")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAccountNotFound = errors.New("account not found")
	ErrMissingToken    = errors.New("authentication token required")
	ErrInvalidToken    = errors.New("invalid token")
	ErrExpiredToken    = errors.New("token expired")
	ErrInvalidLogEvent = errors.New("invalid log event")
)
