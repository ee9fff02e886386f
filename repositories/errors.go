package repositories

import "errors"

var (
	// ErrNotFound is returned when a document does not exist or is not
	// owned by the requesting user.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists is returned when a unique index rejects an insert.
	ErrAlreadyExists = errors.New("already exists")
)
