package web

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func imageURL(name string) string { return "/images/" + name }

type row struct {
	ID            int64
	Name          string
	Brand         string
	Category      string
	Price         decimal.Decimal
	CreatedAt     time.Time
	ImageFileName *string
}

func TestTemplates_RenderList(t *testing.T) {
	tmpl, err := Templates(imageURL)
	require.NoError(t, err)

	name := "1700000000000_phone.png"
	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "products/list", map[string]any{
		"Title":   "Products",
		"Flashes": []string{"Product created."},
		"Products": []row{
			{ID: 2, Name: "Phone <X>", Price: decimal.RequireFromString("9.5"), CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), ImageFileName: &name},
			{ID: 1, Name: "Cable"},
		},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Product created.")
	assert.Contains(t, out, "Phone &lt;X&gt;")
	assert.Contains(t, out, "9.50$")
	assert.Contains(t, out, `src="/images/1700000000000_phone.png"`)
	assert.Contains(t, out, "2024-05-01")
	assert.Contains(t, out, `/products/delete?id=1`)
}

func TestTemplates_DefinesAllPages(t *testing.T) {
	tmpl, err := Templates(imageURL)
	require.NoError(t, err)

	for _, name := range []string{"products/list", "products/create", "products/edit", "header", "footer", "productFields"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}
