// Package books defines the domain boundary of the catalog: the Store
// capability implemented by concrete backends, the error taxonomy consumed
// by the command layer, and the Manager that tracks named store pools.
package books

import (
	"github.com/sdallo/bookshelf/internal/entities"
	"github.com/sdallo/bookshelf/internal/query"
)

// Store provides persistence for catalog books. Implementations are owned
// exclusively by one caller at a time; concurrent use is coordinated by
// leasing stores from a pool.Pool[Store].
//
// Every method returns an error from this package's taxonomy; backend
// specifics never cross this boundary.
type Store interface {
	// AddBook persists a new book and returns it with its id and
	// timestamps populated. Authors and tags are normalized (sorted,
	// deduplicated) and at least one author is required.
	AddBook(book *entities.Book) (*entities.Book, error)

	// UpdateBook rewrites an existing book in place, including its author
	// and tag rows, under the same validation rules as AddBook. The
	// record's updated timestamp is refreshed on the passed book.
	UpdateBook(book *entities.Book) error

	// DeleteBookByID removes a book and its dependent rows.
	DeleteBookByID(id int64) error

	// GetBook loads one book with its authors and tags, or a
	// NotFoundError.
	GetBook(id int64) (*entities.Book, error)

	// FetchBooks runs a filtered, sorted, paginated search.
	FetchBooks(search query.Request) (*query.Result[entities.Book], error)

	// GetTags returns the distinct tag names matching the substring
	// pattern; an empty pattern returns all of them.
	GetTags(pattern string) (*query.Result[string], error)

	// GetAuthors returns distinct author names for a full search request.
	GetAuthors(search query.Request) (*query.Result[string], error)
}
