package pagination

import (
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func paramsFor(t *testing.T, query string) (*Params, bool) {
	t.Helper()
	var (
		params *Params
		ok     bool
	)
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		params, ok = FromQuery(c)
		return nil
	})
	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+query, nil))
	require.NoError(t, err)
	return params, ok
}

func TestFromQuery(t *testing.T) {
	_, ok := paramsFor(t, "")
	assert.False(t, ok)

	tests := []struct {
		query      string
		page, lim  int
		wantOffset int
	}{
		{"?page=2", 2, DefaultLimit, DefaultLimit},
		{"?limit=5", 1, 5, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=0&limit=-1", 1, DefaultLimit, 0},
		{"?limit=1000", 1, MaxLimit, 0},
		{"?page=100000000000000000&limit=100", math.MaxInt / 100, 100, (math.MaxInt/100 - 1) * 100},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p, ok := paramsFor(t, tt.query)
			require.True(t, ok)
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.lim, p.Limit)
			assert.Equal(t, tt.wantOffset, p.Offset)
		})
	}
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	res := Slice(items, &Params{Page: 2, Limit: 2, Offset: 2})
	assert.Equal(t, []int{3, 4}, res.Data)
	assert.Equal(t, 3, res.Meta.TotalPages)
	assert.True(t, res.Meta.HasNext)
	assert.True(t, res.Meta.HasPrev)

	last := Slice(items, &Params{Page: 3, Limit: 2, Offset: 4})
	assert.Equal(t, []int{5}, last.Data)
	assert.False(t, last.Meta.HasNext)

	past := Slice(items, &Params{Page: 9, Limit: 2, Offset: 16})
	assert.Empty(t, past.Data)
	assert.EqualValues(t, 5, past.Meta.Total)

	negative := Slice(items, &Params{Page: 1, Limit: 2, Offset: -4})
	assert.Equal(t, []int{1, 2}, negative.Data)
}

func TestSlice_HugePage(t *testing.T) {
	p, ok := paramsFor(t, "?page=100000000000000000&limit=100")
	require.True(t, ok)
	assert.Positive(t, p.Offset)

	res := Slice([]string{"a", "b"}, p)
	assert.Empty(t, res.Data)
	assert.False(t, res.Meta.HasNext)
	assert.True(t, res.Meta.HasPrev)
}
