// Package books provides the sqlite-backed implementation of the catalog
// Store.
//
// # Interface Implementation
//
//	var _ books.Store = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.GetBook(123)
//
// All search-style operations (FetchBooks, GetTags, GetAuthors) are
// expressed through internal/query; nothing in this package hand-rolls
// pagination or counting.
package books

import (
	"errors"
	"sort"
	"strings"

	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"

	domain "github.com/sdallo/bookshelf/internal/books"
	"github.com/sdallo/bookshelf/internal/entities"
	"github.com/sdallo/bookshelf/internal/query"
)

const bookBaseQuery = "SELECT id, title, sub_title, isbn, lang, description, " +
	"publisher, publish_date, cover_img, created_at, updated_at FROM books"

// bookSortColumns is the allow-list of identifiers a search may sort by.
// Sort columns are spliced into the statement as identifiers, so anything
// outside this list is rejected by the query builder.
var bookSortColumns = []string{
	"id", "title", "sub_title", "isbn", "lang",
	"publisher", "publish_date", "created_at", "updated_at",
}

// Repository handles all catalog database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new catalog repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// bookFilter is the naive substring filter over the searchable book columns.
func bookFilter(text string) (string, []any) {
	pattern := "%" + text + "%"
	return "(LOWER(title) LIKE LOWER(?) OR LOWER(sub_title) LIKE LOWER(?) OR " +
			"isbn LIKE ? OR LOWER(publisher) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?))",
		[]any{pattern, pattern, pattern, pattern, pattern}
}

func nameFilter(text string) (string, []any) {
	pattern := "%" + text + "%"
	return "LOWER(name) LIKE LOWER(?)", []any{pattern}
}

// AddBook persists a new book together with its author and tag rows and
// returns it with id and timestamps populated.
func (r *Repository) AddBook(book *entities.Book) (*entities.Book, error) {
	if err := normalizeBook(book); err != nil {
		return nil, err
	}

	book.ID = 0
	for i := range book.Authors {
		book.Authors[i].ID, book.Authors[i].BookID = 0, 0
	}
	for i := range book.Tags {
		book.Tags[i].ID, book.Tags[i].BookID = 0, 0
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(book).Error
	})
	if err != nil {
		return nil, storeErr("add book", err)
	}
	return book, nil
}

// UpdateBook rewrites an existing book and replaces its author and tag rows.
func (r *Repository) UpdateBook(book *entities.Book) error {
	if err := normalizeBook(book); err != nil {
		return err
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", book.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return &domain.NotFoundError{ID: book.ID}
		}

		if err := tx.Omit("Authors", "Tags", "CreatedAt").Save(book).Error; err != nil {
			return err
		}

		// Author and tag rows are replaced wholesale; normalization above
		// keeps the rewrite deterministic across repeated updates.
		if err := tx.Where("book_id = ?", book.ID).Delete(&entities.Author{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", book.ID).Delete(&entities.Tag{}).Error; err != nil {
			return err
		}
		for i := range book.Authors {
			book.Authors[i].ID, book.Authors[i].BookID = 0, book.ID
		}
		for i := range book.Tags {
			book.Tags[i].ID, book.Tags[i].BookID = 0, book.ID
		}
		if len(book.Authors) > 0 {
			if err := tx.Create(&book.Authors).Error; err != nil {
				return err
			}
		}
		if len(book.Tags) > 0 {
			if err := tx.Create(&book.Tags).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return storeErr("update book", err)
	}
	return nil
}

// DeleteBookByID removes a book and its author and tag rows.
func (r *Repository) DeleteBookByID(id int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&entities.Author{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Tag{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&entities.Book{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &domain.NotFoundError{ID: id}
		}
		return nil
	})
	if err != nil {
		return storeErr("delete book", err)
	}
	return nil
}

// GetBook loads one book with its authors and tags.
func (r *Repository) GetBook(id int64) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Authors", func(db *gorm.DB) *gorm.DB {
		return db.Order("name ASC")
	}).Preload("Tags", func(db *gorm.DB) *gorm.DB {
		return db.Order("name ASC")
	}).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		return nil, storeErr("get book", err)
	}
	return &book, nil
}

// FetchBooks runs a filtered, sorted, paginated search over the catalog.
func (r *Repository) FetchBooks(search query.Request) (*query.Result[entities.Book], error) {
	q := query.New(bookBaseQuery, search).
		AllowColumns(bookSortColumns...).
		FilterClause(bookFilter)

	res, err := query.Run[entities.Book](r.db, q)
	if err != nil {
		return nil, storeErr("fetch books", err)
	}
	if err := r.loadRelations(res.Items); err != nil {
		return nil, storeErr("fetch books", err)
	}
	return res, nil
}

// GetTags returns the distinct tag names matching the substring pattern.
func (r *Repository) GetTags(pattern string) (*query.Result[string], error) {
	req := query.NewBuilder(pattern).
		Sort(query.SortDescriptor{Column: "name", Order: query.Asc}).
		Finalize()
	q := query.New("SELECT DISTINCT name FROM tags", req).
		AllowColumns("name").
		FilterClause(nameFilter)

	res, err := query.Run[string](r.db, q)
	if err != nil {
		return nil, storeErr("get tags", err)
	}
	return res, nil
}

// GetAuthors returns distinct author names for a full search request,
// including its sort and pagination.
func (r *Repository) GetAuthors(search query.Request) (*query.Result[string], error) {
	q := query.New("SELECT DISTINCT name FROM authors", search).
		AllowColumns("name").
		FilterClause(nameFilter)

	res, err := query.Run[string](r.db, q)
	if err != nil {
		return nil, storeErr("get authors", err)
	}
	return res, nil
}

// loadRelations attaches author and tag rows to a fetched page of books.
func (r *Repository) loadRelations(items []entities.Book) error {
	if len(items) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(items))
	index := make(map[int64]*entities.Book, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
		index[items[i].ID] = &items[i]
	}

	var authors []entities.Author
	if err := r.db.Where("book_id IN ?", ids).Order("name ASC").Find(&authors).Error; err != nil {
		return err
	}
	for _, a := range authors {
		if b, ok := index[a.BookID]; ok {
			b.Authors = append(b.Authors, a)
		}
	}

	var tags []entities.Tag
	if err := r.db.Where("book_id IN ?", ids).Order("name ASC").Find(&tags).Error; err != nil {
		return err
	}
	for _, t := range tags {
		if b, ok := index[t.BookID]; ok {
			b.Tags = append(b.Tags, t)
		}
	}
	return nil
}

// normalizeBook sorts and deduplicates the multi-valued fields so repeated
// reads stay deterministic, and enforces the at-least-one-author rule.
func normalizeBook(book *entities.Book) error {
	book.Authors = authorRows(normalizeNames(book.AuthorNames()))
	book.Tags = tagRows(normalizeNames(book.TagNames()))
	if len(book.Authors) == 0 {
		return &domain.ValidationError{Field: "authors", Reason: "at least one author is required"}
	}
	return nil
}

func normalizeNames(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func authorRows(names []string) []entities.Author {
	rows := make([]entities.Author, 0, len(names))
	for _, n := range names {
		rows = append(rows, entities.Author{Name: n})
	}
	return rows
}

func tagRows(names []string) []entities.Tag {
	rows := make([]entities.Tag, 0, len(names))
	for _, n := range names {
		rows = append(rows, entities.Tag{Name: n})
	}
	return rows
}

// storeErr translates backend failures into the domain taxonomy; domain
// errors pass through untouched.
func storeErr(op string, err error) error {
	var nf *domain.NotFoundError
	var ve *domain.ValidationError
	if errors.As(err, &nf) || errors.As(err, &ve) {
		return err
	}
	if errors.Is(err, query.ErrUnknownColumn) {
		return &domain.ValidationError{Field: "sort", Reason: err.Error()}
	}
	var serr sqlite3.Error
	if errors.As(err, &serr) && serr.Code == sqlite3.ErrConstraint {
		return &domain.ValidationError{Field: "record", Reason: serr.Error()}
	}
	return &domain.BackendError{Op: op, Err: err}
}
