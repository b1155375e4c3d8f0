// Package repository defines the data access layer over MySQL along with
// sentinel errors reused across repositories. The sentinels let handlers
// distinguish failure scenarios without inspecting driver errors: for
// example ErrForbidden signals that the caller does not own the target
// entity, while ErrNotFound signals that the target does not exist.
package repository

import "errors"

// ErrNotFound is returned when the requested entity does not exist.
// Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts a mutation on an
// entity owned by someone else. Handlers translate this into an HTTP
// 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrUserExists is returned when an insert would violate the unique
// username or email constraint. Handlers translate this into HTTP 409.
var ErrUserExists = errors.New("username or email already exists")

// ErrBadPage is returned when pagination or sorting inputs are malformed,
// including sort fields outside the per-resource whitelist. Handlers
// translate this into HTTP 400.
var ErrBadPage = errors.New("invalid pagination parameters")
