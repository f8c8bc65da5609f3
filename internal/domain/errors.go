package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrInvalidDate   = errors.New("fecha inválida, se espera formato YYYY-MM-DD")
	ErrMissingData   = errors.New("archivo de datos vacío o ausente")
	ErrUnknownEngine = errors.New("motor de base de datos no soportado")
)
