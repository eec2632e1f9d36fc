package usecase

import "errors"

var (
	// ErrForbidden indicates the caller is not allowed to perform the operation.
	// Resolution failures and missing credentials surface the same way so the
	// response does not reveal whether the operation exists for other roles.
	ErrForbidden = errors.New("operation not permitted")
	// ErrNotFound indicates the addressed resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrVersionRequired indicates a state-changing request arrived without the
	// resource version it was based on.
	ErrVersionRequired = errors.New("resource version required")
	// ErrVersionMismatch indicates the supplied version no longer matches the
	// stored resource.
	ErrVersionMismatch = errors.New("resource version mismatch")
	// ErrValidation indicates the request payload violates a domain constraint.
	ErrValidation = errors.New("validation failed")
	// ErrCapacityExceeded indicates the movie has no seats left.
	ErrCapacityExceeded = errors.New("no seats available")
	// ErrReferentialConflict indicates the resource is still referenced and
	// cannot be removed.
	ErrReferentialConflict = errors.New("resource still referenced")
	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserInactive indicates the account is deactivated.
	ErrUserInactive = errors.New("user is deactivated")
	// ErrLoginTaken indicates the requested login is already registered.
	ErrLoginTaken = errors.New("login already taken")
)
