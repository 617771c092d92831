package query

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrConfiguration is returned when a Query is given both a filter-clause
	// function and a raw parameter list; the two modes are mutually exclusive.
	ErrConfiguration = errors.New("filter-clause mode and params mode are mutually exclusive")

	// ErrUnknownColumn is returned when a sort descriptor names a column that
	// is not in the allow-list. Column names are spliced into the generated
	// SQL as identifiers, so anything not explicitly allowed is rejected
	// before it gets near the statement.
	ErrUnknownColumn = errors.New("sort column not allowed")
)

// FilterClause maps the request's free text to a backend predicate fragment
// and its positional parameters, e.g.
//
//	func(text string) (string, []any) {
//		p := "%" + text + "%"
//		return "LOWER(title) LIKE LOWER(?)", []any{p}
//	}
type FilterClause func(text string) (clause string, args []any)

// Query combines a base statement with a finalized Request and produces two
// derived statements: an unpaginated COUNT over the filtered base, and the
// filtered base with ORDER BY and LIMIT/OFFSET appended.
//
// The filter comes from exactly one of two modes: a FilterClause function
// ("where-clause mode", the clause is appended as WHERE) or a raw parameter
// list ("params mode", the base already contains its placeholders).
type Query struct {
	base      string
	req       Request
	allowed   map[string]struct{}
	filter    FilterClause
	params    []any
	hasParams bool
}

// New creates a Query for the given base statement and finalized request.
func New(base string, req Request) *Query {
	return &Query{base: base, req: req}
}

// AllowColumns registers the column identifiers that sort descriptors may
// reference. Sorting by any other column fails with ErrUnknownColumn.
func (q *Query) AllowColumns(cols ...string) *Query {
	if q.allowed == nil {
		q.allowed = make(map[string]struct{}, len(cols))
	}
	for _, c := range cols {
		q.allowed[c] = struct{}{}
	}
	return q
}

// FilterClause selects where-clause mode. fn is only consulted when the
// request carries non-empty filter text.
func (q *Query) FilterClause(fn FilterClause) *Query {
	q.filter = fn
	return q
}

// Params selects params mode: the base statement already contains its
// placeholders and args binds them.
func (q *Query) Params(args ...any) *Query {
	q.params = args
	q.hasParams = true
	return q
}

type statement struct {
	countSQL  string
	fetchSQL  string
	countArgs []any
	fetchArgs []any
}

func (q *Query) build() (*statement, error) {
	if q.filter != nil && q.hasParams {
		return nil, ErrConfiguration
	}

	filtered := q.base
	var args []any
	switch {
	case q.filter != nil && q.req.text != "":
		clause, clauseArgs := q.filter(q.req.text)
		if clause != "" {
			filtered = q.base + " WHERE " + clause
			args = clauseArgs
		}
	case q.hasParams:
		args = q.params
	}

	var sb strings.Builder
	sb.WriteString(filtered)
	if len(q.req.sort) > 0 {
		parts := make([]string, 0, len(q.req.sort))
		for _, d := range q.req.sort {
			if _, ok := q.allowed[d.Column]; !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, d.Column)
			}
			parts = append(parts, d.Column+" "+d.Order.String())
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(parts, ", "))
	}

	fetchArgs := append([]any(nil), args...)
	if q.req.hasTake {
		sb.WriteString(" LIMIT ?")
		fetchArgs = append(fetchArgs, q.req.take)
		// A page offset without a page size is undefined and ignored.
		if q.req.hasSkip && q.req.skipPage > 0 {
			sb.WriteString(" OFFSET ?")
			fetchArgs = append(fetchArgs, q.req.take*q.req.skipPage)
		}
	}

	return &statement{
		countSQL:  "SELECT COUNT(*) FROM (" + filtered + ")",
		fetchSQL:  sb.String(),
		countArgs: args,
		fetchArgs: fetchArgs,
	}, nil
}

// Run executes the count and fetch statements and assembles the result
// envelope. Items may be a struct type mapped by column name or a scalar
// type for single-column projections.
func Run[T any](db *gorm.DB, q *Query) (*Result[T], error) {
	stmt, err := q.build()
	if err != nil {
		return nil, err
	}

	var total int64
	if err := db.Raw(stmt.countSQL, stmt.countArgs...).Scan(&total).Error; err != nil {
		return nil, fmt.Errorf("count query: %w", err)
	}

	var items []T
	if err := db.Raw(stmt.fetchSQL, stmt.fetchArgs...).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("fetch query: %w", err)
	}

	res := &Result[T]{Total: uint64(total), Items: items}
	if q.req.hasTake && q.req.hasSkip && q.req.skipPage > 0 && res.Total > uint64(len(items)) {
		// Clamped so that Skipped+len(Items) <= Total holds even when the
		// requested page lies past the end of the result set.
		res.Skipped = min(q.req.skipPage, res.Total-uint64(len(items)))
	}
	return res, nil
}
