package db

import "errors"

var (
	// ErrAlreadyOpen is returned by Manager.Open when a handle is already open
	ErrAlreadyOpen = errors.New("database already open")
	// ErrModelMismatch is returned when the configured model modules differ from the registry
	ErrModelMismatch = errors.New("model modules mismatch")
	// ErrSchemaNotMigrated is returned when migrations are pending or dirty at open time
	ErrSchemaNotMigrated = errors.New("database schema is not migrated")
	// ErrUnsupportedURL is returned when the database URL scheme is not recognised
	ErrUnsupportedURL = errors.New("unsupported database url")

	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInsufficientStock = errors.New("insufficient stock")
)
