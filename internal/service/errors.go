package service

import "errors"

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrInvalidPromotion = errors.New("invalid promotion piece")
)
