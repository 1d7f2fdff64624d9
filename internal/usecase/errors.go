package usecase

import (
	"errors"

	"github.com/riskibarqy/fc24pred/internal/domain/forecast"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	ErrInsufficientData      = forecast.ErrInsufficientData
)
