// Package pagepkg resolves caller supplied paging and sorting parameters.
package pagepkg

import (
	"strconv"
	"strings"

	"github.com/go-petr/cash-card/internal/domain"
)

// Defaults applied when a parameter is absent or invalid.
const (
	DefaultNumber    int32  = 0
	DefaultSize      int32  = 20
	MaxSize          int32  = 100
	DefaultSortField string = "amount"
)

// DefaultSort is the ordering used when no sort parameter is supplied.
var DefaultSort = []domain.Order{{Field: DefaultSortField, Direction: domain.Asc}}

// Params holds raw query parameters as received.
type Params struct {
	Page string
	Size string
	Sort []string
}

// Resolve turns raw parameters into a page request.
//
// Each sort parameter has the form "field[,asc|desc]". Field names are not
// checked here, that is up to the repository.
func Resolve(p Params) domain.PageRequest {
	req := domain.PageRequest{
		Number: DefaultNumber,
		Size:   DefaultSize,
	}

	if n, err := strconv.ParseInt(strings.TrimSpace(p.Page), 10, 32); err == nil && n >= 0 {
		req.Number = int32(n)
	}

	if n, err := strconv.ParseInt(strings.TrimSpace(p.Size), 10, 32); err == nil && n > 0 {
		req.Size = int32(n)
		if req.Size > MaxSize {
			req.Size = MaxSize
		}
	}

	for _, s := range p.Sort {
		if o, ok := parseOrder(s); ok {
			req.Sort = append(req.Sort, o)
		}
	}

	if len(req.Sort) == 0 {
		req.Sort = append([]domain.Order(nil), DefaultSort...)
	}

	return req
}

func parseOrder(s string) (domain.Order, bool) {
	parts := strings.Split(s, ",")

	field := strings.TrimSpace(parts[0])
	if field == "" {
		return domain.Order{}, false
	}

	o := domain.Order{Field: field, Direction: domain.Asc}

	if len(parts) > 1 && strings.EqualFold(strings.TrimSpace(parts[1]), string(domain.Desc)) {
		o.Direction = domain.Desc
	}

	return o, true
}
