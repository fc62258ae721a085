// Package repository implements data access on MySQL.  Sentinel error
// values defined here let handlers distinguish failure scenarios, e.g.
// ErrNotFound maps to HTTP 404.  The booking core's transactional store
// lives in store.go; the remaining files are conventional per-table
// repositories.
package repository

import "errors"

// ErrNotFound is returned when a lookup yields no rows.  Owner-scoped
// lookups also return it for rows owned by someone else, so responses
// do not reveal whether the row exists.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateApplication is returned when a user with a pending or
// approved artist application applies again.
var ErrDuplicateApplication = errors.New("application already exists")
