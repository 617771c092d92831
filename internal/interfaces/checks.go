package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	domain "github.com/sdallo/bookshelf/internal/books"
	dbbooks "github.com/sdallo/bookshelf/internal/database/books"
)

// Store implementations
var _ domain.Store = (*dbbooks.Repository)(nil)
