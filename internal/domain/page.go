package domain

import "errors"

// ErrUnsupportedSortField indicates a sort by a field that cash cards cannot be ordered by.
var ErrUnsupportedSortField = errors.New("unsupported sort field")

// Direction is a sort direction.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Order sorts by a single field.
type Order struct {
	Field     string
	Direction Direction
}

// PageRequest is a resolved page of an owner scoped listing.
type PageRequest struct {
	Number int32
	Size   int32
	Sort   []Order
}

// Offset returns the number of records that precede the page.
func (p PageRequest) Offset() int64 {
	return int64(p.Number) * int64(p.Size)
}
