package query

// Result is the envelope returned by every search-style operation.
//
// Total counts all rows matching the filter regardless of pagination, so it
// is identical across requests that differ only in Take/SkipPage. Skipped
// is the page offset that was actually applied; it is non-zero only when
// both a page size and a positive page offset were supplied. Items holds at
// most Take elements.
type Result[T any] struct {
	Total   uint64 `json:"total"`
	Skipped uint64 `json:"skipped"`
	Items   []T    `json:"items"`
}
