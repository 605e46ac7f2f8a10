package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidTransition = errors.New("operación fuera del estado válido de la sesión")
	ErrSessionNotFound   = errors.New("sesión de picking no encontrada")
	ErrSessionExists     = errors.New("ya existe una sesión para la orden")
	ErrIssueNotFound     = errors.New("incidencia no encontrada o ya resuelta")
	ErrBinFrozen         = errors.New("la ubicación está congelada y no es seleccionable")
	ErrBinNotCandidate   = errors.New("la ubicación no está entre las candidatas")
)
