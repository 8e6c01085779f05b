package repository

import "errors"

// Sentinel errors returned by repositories; services translate them into the
// API error taxonomy.
var (
	ErrNotFound  = errors.New("repository: not found")
	ErrDuplicate = errors.New("repository: duplicate row")
)
