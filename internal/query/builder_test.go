package query

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func titleFilter(text string) (string, []any) {
	pattern := "%" + text + "%"
	return "LOWER(title) LIKE LOWER(?)", []any{pattern}
}

func TestQuery_BuildUnfiltered(t *testing.T) {
	req := NewBuilder("").Finalize()
	stmt, err := New("SELECT id, title FROM books", req).
		FilterClause(titleFilter).
		build()

	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT id, title FROM books)", stmt.countSQL)
	assert.Equal(t, "SELECT id, title FROM books", stmt.fetchSQL)
	assert.Empty(t, stmt.countArgs)
	assert.Empty(t, stmt.fetchArgs)
}

func TestQuery_BuildWithFilterClause(t *testing.T) {
	req := NewBuilder("war").Finalize()
	stmt, err := New("SELECT id, title FROM books", req).
		FilterClause(titleFilter).
		build()

	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(*) FROM (SELECT id, title FROM books WHERE LOWER(title) LIKE LOWER(?))",
		stmt.countSQL)
	assert.Equal(t,
		"SELECT id, title FROM books WHERE LOWER(title) LIKE LOWER(?)",
		stmt.fetchSQL)
	assert.Equal(t, []any{"%war%"}, stmt.countArgs)
	assert.Equal(t, []any{"%war%"}, stmt.fetchArgs)
}

func TestQuery_BuildWithParamsMode(t *testing.T) {
	req := NewBuilder("").Finalize()
	stmt, err := New("SELECT name FROM authors WHERE book_id = ?", req).
		Params(int64(7)).
		build()

	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(*) FROM (SELECT name FROM authors WHERE book_id = ?)",
		stmt.countSQL)
	assert.Equal(t, []any{int64(7)}, stmt.countArgs)
	assert.Equal(t, []any{int64(7)}, stmt.fetchArgs)
}

func TestQuery_BuildBothModesFails(t *testing.T) {
	req := NewBuilder("x").Finalize()
	_, err := New("SELECT id FROM books", req).
		FilterClause(titleFilter).
		Params("y").
		build()

	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestQuery_BuildSortAndPagination(t *testing.T) {
	req := NewBuilder("").
		Sort(
			SortDescriptor{Column: "title", Order: Asc},
			SortDescriptor{Column: "isbn", Order: Desc},
		).
		Take(10).
		SkipPage(3).
		Finalize()

	stmt, err := New("SELECT id, title, isbn FROM books", req).
		AllowColumns("title", "isbn").
		build()

	require.NoError(t, err)
	assert.Equal(t,
		"SELECT id, title, isbn FROM books ORDER BY title ASC, isbn DESC LIMIT ? OFFSET ?",
		stmt.fetchSQL)
	// Row offset is take times page offset.
	assert.Equal(t, []any{uint64(10), uint64(30)}, stmt.fetchArgs)
	// The count statement carries no pagination.
	assert.Equal(t, "SELECT COUNT(*) FROM (SELECT id, title, isbn FROM books)", stmt.countSQL)
}

func TestQuery_BuildSkipWithoutTakeIsIgnored(t *testing.T) {
	req := NewBuilder("").SkipPage(4).Finalize()
	stmt, err := New("SELECT id FROM books", req).build()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM books", stmt.fetchSQL)
	assert.Empty(t, stmt.fetchArgs)
}

func TestQuery_BuildRejectsUnknownSortColumn(t *testing.T) {
	req := NewBuilder("").
		Sort(SortDescriptor{Column: "title; DROP TABLE books", Order: Asc}).
		Finalize()

	_, err := New("SELECT id FROM books", req).
		AllowColumns("title").
		build()

	assert.ErrorIs(t, err, ErrUnknownColumn)
}

func TestQuery_BuildRejectsSortWithoutAllowList(t *testing.T) {
	req := NewBuilder("").Sort(SortDescriptor{Column: "title"}).Finalize()
	_, err := New("SELECT id FROM books", req).build()

	assert.ErrorIs(t, err, ErrUnknownColumn)
}

type testBook struct {
	ID    int64 `gorm:"primaryKey"`
	Title string
}

func setupTestDB(t *testing.T) (*gorm.DB, func()) {
	dbPath := "./test_query_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&testBook{}))
	for _, title := range []string{"War and Peace", "Anna Karenina", "Faust"} {
		require.NoError(t, db.Create(&testBook{Title: title}).Error)
	}

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestRun_UnpaginatedReturnsEverything(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	req := NewBuilder("").Finalize()
	res, err := Run[testBook](db, New("SELECT id, title FROM test_books", req))

	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Total)
	assert.Equal(t, uint64(0), res.Skipped)
	assert.Len(t, res.Items, 3)
}

func TestRun_FilteredCountMatchesFilter(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	req := NewBuilder("an").Finalize()
	res, err := Run[testBook](db,
		New("SELECT id, title FROM test_books", req).FilterClause(titleFilter))

	require.NoError(t, err)
	// "War and Peace" and "Anna Karenina" match, "Faust" does not.
	assert.Equal(t, uint64(2), res.Total)
	assert.Len(t, res.Items, 2)
}

func TestRun_PaginationIndependentTotal(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	base := "SELECT id, title FROM test_books"

	full, err := Run[testBook](db, New(base, NewBuilder("").Finalize()))
	require.NoError(t, err)

	paged, err := Run[testBook](db,
		New(base, NewBuilder("").Take(2).SkipPage(1).Finalize()))
	require.NoError(t, err)

	assert.Equal(t, full.Total, paged.Total)
	assert.Equal(t, uint64(1), paged.Skipped)
	assert.Len(t, paged.Items, 1)
	assert.LessOrEqual(t, paged.Skipped+uint64(len(paged.Items)), paged.Total)
}

func TestRun_PageBeyondEnd(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	res, err := Run[testBook](db,
		New("SELECT id, title FROM test_books", NewBuilder("").Take(2).SkipPage(9).Finalize()))

	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.LessOrEqual(t, res.Skipped+uint64(len(res.Items)), res.Total)
}

func TestRun_SortedFetch(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	req := NewBuilder("").
		Sort(SortDescriptor{Column: "title", Order: Desc}).
		Finalize()
	res, err := Run[testBook](db,
		New("SELECT id, title FROM test_books", req).AllowColumns("title"))

	require.NoError(t, err)
	require.Len(t, res.Items, 3)
	assert.Equal(t, "War and Peace", res.Items[0].Title)
	assert.Equal(t, "Faust", res.Items[1].Title)
	assert.Equal(t, "Anna Karenina", res.Items[2].Title)
}

func TestRun_ScalarProjection(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	req := NewBuilder("").Sort(SortDescriptor{Column: "title", Order: Asc}).Finalize()
	res, err := Run[string](db,
		New("SELECT title FROM test_books", req).AllowColumns("title"))

	require.NoError(t, err)
	assert.Equal(t, []string{"Anna Karenina", "Faust", "War and Peace"}, res.Items)
}
