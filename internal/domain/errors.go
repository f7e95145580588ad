package domain

import "errors"

var (
	ErrInvalidID            = errors.New("invalid id")
	ErrInvalidName          = errors.New("invalid name")
	ErrInvalidLabel         = errors.New("invalid label")
	ErrInvalidSize          = errors.New("invalid size")
	ErrInvalidPosition      = errors.New("invalid position")
	ErrInvalidGridKey       = errors.New("invalid grid key")
	ErrInvalidCardinality   = errors.New("invalid cardinality")
	ErrInvalidSelectionMode = errors.New("invalid selection mode")
	ErrInvalidCapability    = errors.New("invalid capability")
)
