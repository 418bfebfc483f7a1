package world

import "errors"

var (
	ErrNotConnected  = errors.New("entity not connected")
	ErrSessionExists = errors.New("entity already connected")
	ErrFull          = errors.New("world is at capacity")
	ErrInvalidSlot   = errors.New("invalid inventory slot")
)
