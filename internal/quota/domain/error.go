package domain

import "errors"

var (
	ErrAccountNotFound = errors.New("usage account not found")
	ErrQuotaExhausted  = errors.New("free usage quota exhausted")
)
