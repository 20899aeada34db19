package pricing

import "errors"

var (
	ErrInvalidOccupancy  = errors.New("invalid occupancy")
	ErrInvalidRateConfig = errors.New("invalid rate config")
	ErrUnknownExtra      = errors.New("unknown extra")
	ErrRoomNotFound      = errors.New("room not found")
	ErrInvalidConfig     = errors.New("invalid pricing config")
)
