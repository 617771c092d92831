// Package query turns an abstract search request (free-text filter,
// multi-column sort, pagination) into a parameterized count query plus a
// paginated fetch query against a SQL backend.
//
// A Request is built in two phases: a mutable Builder draft and the
// finalized, read-only Request produced by Finalize. Only finalized
// requests can be executed, so a partially configured draft can never
// reach the database.
package query

import "strings"

// SortOrder is the direction of one sort column.
type SortOrder int

const (
	Asc SortOrder = iota
	Desc
)

// ParseSortOrder maps a string to a SortOrder, case-insensitively.
// Anything that is not "desc" is treated as ascending.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, "desc") {
		return Desc
	}
	return Asc
}

func (o SortOrder) String() string {
	if o == Desc {
		return "DESC"
	}
	return "ASC"
}

// SortDescriptor names one column and the order to sort it by. The column
// is an opaque identifier that must pass the allow-list check in Query
// before it is ever spliced into SQL.
type SortDescriptor struct {
	Column string    `json:"column"`
	Order  SortOrder `json:"order"`
}

// Request is a finalized, immutable description of a search: filter text,
// sort order and pagination. Create one through NewBuilder; a Request is
// meant to live for a single query execution.
type Request struct {
	text     string
	sort     []SortDescriptor
	take     uint64
	hasTake  bool
	skipPage uint64
	hasSkip  bool
}

// Text returns the free-text filter. Empty means "no filter".
func (r Request) Text() string { return r.text }

// Sort returns a copy of the sort descriptors in caller-relevant order.
func (r Request) Sort() []SortDescriptor {
	out := make([]SortDescriptor, len(r.sort))
	copy(out, r.sort)
	return out
}

// Take returns the page size and whether one was set.
func (r Request) Take() (uint64, bool) { return r.take, r.hasTake }

// SkipPage returns the page offset and whether one was set. The effective
// row offset is SkipPage × Take; without a Take the page offset is ignored.
func (r Request) SkipPage() (uint64, bool) { return r.skipPage, r.hasSkip }

// Builder is the editable draft of a Request.
type Builder struct {
	req Request
}

// NewBuilder starts a draft with the given filter text. Empty text means
// the search matches everything.
func NewBuilder(text string) *Builder {
	return &Builder{req: Request{text: text}}
}

// Sort replaces the draft's sort descriptors. Order is significant.
func (b *Builder) Sort(sort ...SortDescriptor) *Builder {
	b.req.sort = append([]SortDescriptor(nil), sort...)
	return b
}

// Take sets the page size.
func (b *Builder) Take(n uint64) *Builder {
	b.req.take = n
	b.req.hasTake = true
	return b
}

// SkipPage sets the page offset, in pages of Take rows each.
func (b *Builder) SkipPage(n uint64) *Builder {
	b.req.skipPage = n
	b.req.hasSkip = true
	return b
}

// Finalize produces the immutable Request. The draft can be reused, but
// the returned value no longer shares state with it.
func (b *Builder) Finalize() Request {
	req := b.req
	req.sort = append([]SortDescriptor(nil), b.req.sort...)
	return req
}
