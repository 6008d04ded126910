package pagination

import (
	"math"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// FromQuery reads page and limit. ok is false when the client asked for neither,
// in which case the caller should return the whole list.
func FromQuery(c *fiber.Ctx) (params *Params, ok bool) {
	if c.Query("page") == "" && c.Query("limit") == "" {
		return nil, false
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", DefaultLimit)

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	// keeps (page-1)*limit from overflowing
	if page > math.MaxInt/limit {
		page = math.MaxInt / limit
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}, true
}

// GetMeta calculates pagination metadata
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int(total) / params.Limit
	if int(total)%params.Limit > 0 {
		totalPages++
	}

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}

// Response represents paginated response
type Response[T any] struct {
	Data []T   `json:"data"`
	Meta *Meta `json:"meta"`
}

// Slice cuts one page out of an already ordered list
func Slice[T any](items []T, params *Params) *Response[T] {
	total := len(items)
	start := min(max(params.Offset, 0), total)
	end := min(start+params.Limit, total)

	return &Response[T]{
		Data: items[start:end],
		Meta: GetMeta(params, int64(total)),
	}
}
