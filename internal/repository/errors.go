package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrVersionConflict indicates a conditional update observed a version
	// other than the one it expected; the store was left untouched.
	ErrVersionConflict = errors.New("repository: version conflict")
	// ErrDuplicate indicates a uniqueness constraint (e.g. user login) was violated.
	ErrDuplicate = errors.New("repository: duplicate")
)
