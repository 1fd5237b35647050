package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/retail-store/internal/catalog"
	"github.com/xenking/retail-store/internal/domain/product"
	"github.com/xenking/retail-store/internal/domain/store"
)

// --- Helpers ---

func newDefaultStore(t *testing.T) (*store.Store, []*product.Product) {
	t.Helper()
	doc, err := catalog.Default()
	require.NoError(t, err)
	products, err := doc.Build()
	require.NoError(t, err)
	s, err := store.New(products)
	require.NoError(t, err)
	return s, products
}

func runMenu(t *testing.T, s *store.Store, format Format, input string) string {
	t.Helper()
	var out bytes.Buffer
	m := NewMenu(s, strings.NewReader(input), &out, format)
	require.NoError(t, m.Run(context.Background()))
	return out.String()
}

// --- Tests ---

func TestMenu_ListProducts(t *testing.T) {
	s, _ := newDefaultStore(t)

	out := runMenu(t, s, FormatText, "1\n4\n")

	assert.Contains(t, out, "Store Menu")
	assert.Contains(t, out, "1. MacBook Air M2, Price: 1450, Quantity: 100, Promotion: Second Half price!\n")
	assert.Contains(t, out, "4. Windows License, Price: 125, Quantity: Unlimited, Promotion: 30% off!\n")
	assert.Contains(t, out, "5. Shipping, Price: 10, Limited to 1 per order!, Promotion: None\n")
}

func TestMenu_TotalQuantity(t *testing.T) {
	s, _ := newDefaultStore(t)

	out := runMenu(t, s, FormatText, "2\n4\n")

	assert.Contains(t, out, "Total: 1100 items in store")
}

func TestMenu_MakeOrder(t *testing.T) {
	s, products := newDefaultStore(t)

	out := runMenu(t, s, FormatText, "3\n1\n2\n2\n3\n\n4\n")

	assert.Equal(t, 2, strings.Count(out, "Product added to list!"))
	assert.Contains(t, out, "Order made! Total payment: $2675\n")
	assert.Equal(t, 98, products[0].Quantity())
	assert.Equal(t, 497, products[1].Quantity())
}

func TestMenu_FractionalTotal(t *testing.T) {
	doc, err := catalog.Parse([]byte(`{
		"promotions": [{"id": "p", "kind": "percent_discount", "name": "15% off", "percent": 15}],
		"products": [{"name": "Cable", "price": "9.99", "quantity": 10, "promotion": "p"}]
	}`))
	require.NoError(t, err)
	products, err := doc.Build()
	require.NoError(t, err)
	s, err := store.New(products)
	require.NoError(t, err)

	out := runMenu(t, s, FormatText, "3\n1\n3\n\n4\n")

	assert.Contains(t, out, "Order made! Total payment: $25.47\n")
}

func TestMenu_RejectsCumulativeMaximum(t *testing.T) {
	s, products := newDefaultStore(t)

	out := runMenu(t, s, FormatText, "3\n5\n1\n5\n1\n\n4\n")

	assert.Equal(t, 1, strings.Count(out, "Product added to list!"))
	assert.Equal(t, 1, strings.Count(out, "Error adding product!"))
	assert.Contains(t, out, "Order made! Total payment: $10\n")
	assert.Equal(t, 249, products[4].Quantity())
}

func TestMenu_RejectsCumulativeStock(t *testing.T) {
	doc, err := catalog.Parse([]byte(`{"products": [{"name": "Pixel", "price": 500, "quantity": 3}]}`))
	require.NoError(t, err)
	products, err := doc.Build()
	require.NoError(t, err)
	s, err := store.New(products)
	require.NoError(t, err)

	out := runMenu(t, s, FormatText, "3\n1\n2\n1\n2\n1\n1\n\n4\n")

	assert.Equal(t, 2, strings.Count(out, "Product added to list!"))
	assert.Equal(t, 1, strings.Count(out, "Error adding product!"))
	assert.Contains(t, out, "Order made! Total payment: $1500\n")
	assert.Equal(t, 0, products[0].Quantity())
}

func TestMenu_RejectsOverflowingAmount(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		index     int
		wantTotal string
		wantStock int
	}{
		{
			name:      "limited maximum",
			input:     "3\n5\n1\n5\n9223372036854775807\n\n4\n",
			index:     4,
			wantTotal: "$10",
			wantStock: 249,
		},
		{
			name:      "stock in hand",
			input:     "3\n3\n1\n3\n9223372036854775807\n\n4\n",
			index:     2,
			wantTotal: "$500",
			wantStock: 249,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, products := newDefaultStore(t)

			out := runMenu(t, s, FormatText, tt.input)

			assert.Equal(t, 1, strings.Count(out, "Product added to list!"))
			assert.Equal(t, 1, strings.Count(out, "Error adding product!"))
			assert.NotContains(t, out, "Error making order")
			assert.Contains(t, out, "Order made! Total payment: "+tt.wantTotal+"\n")
			assert.Equal(t, tt.wantStock, products[tt.index].Quantity())
		})
	}
}

func TestMenu_WhitespaceAnswerIsInvalid(t *testing.T) {
	s, _ := newDefaultStore(t)

	out := runMenu(t, s, FormatText, "3\n   \n1\n1\n  \n\n4\n")

	assert.Equal(t, 2, strings.Count(out, "Error adding product!"))
	assert.NotContains(t, out, "********")
	assert.NotContains(t, out, "Order made!")
	assert.Equal(t, 1100, s.TotalQuantity())
}

func TestMenu_AmountWithSurroundingSpaces(t *testing.T) {
	s, products := newDefaultStore(t)

	out := runMenu(t, s, FormatText, "3\n 3 \n 2\n\n4\n")

	assert.Contains(t, out, "Order made! Total payment: $1000\n")
	assert.Equal(t, 248, products[2].Quantity())
}

func TestMenu_InvalidLines(t *testing.T) {
	s, _ := newDefaultStore(t)

	out := runMenu(t, s, FormatText, "3\nabc\n1\n9\n1\n1\n0\n1\n-2\n\n4\n")

	assert.Equal(t, 4, strings.Count(out, "Error adding product!"))
	assert.NotContains(t, out, "Order made!")
	assert.Equal(t, 1100, s.TotalQuantity())
}

func TestMenu_EmptyAmountEndsOrder(t *testing.T) {
	s, _ := newDefaultStore(t)

	out := runMenu(t, s, FormatText, "3\n3\n1\n2\n\n4\n")

	assert.Contains(t, out, "********")
	assert.Contains(t, out, "Order made! Total payment: $500\n")
}

func TestMenu_EndOfInput(t *testing.T) {
	s, _ := newDefaultStore(t)

	out := runMenu(t, s, FormatText, "3\n1\n")

	assert.NotContains(t, out, "Order made!")
	assert.Equal(t, 1100, s.TotalQuantity())
}

func TestMenu_CancelledContext(t *testing.T) {
	s, _ := newDefaultStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	m := NewMenu(s, strings.NewReader("2\n"), &out, FormatText)
	require.NoError(t, m.Run(ctx))
	assert.Empty(t, out.String())
}

func TestMenu_JSON(t *testing.T) {
	s, _ := newDefaultStore(t)

	out := runMenu(t, s, FormatJSON, "2\n3\n4\n4\n\n1\n")

	assert.Contains(t, out, `{"total_quantity":1100}`)
	assert.Contains(t, out, `"name":"Windows License","quantity":4}],"total":350}`)
	assert.Contains(t, out, `"name":"Windows License","kind":"non_stocked","price":125,"quantity":null,"promotion":"30% off!"}`)
	assert.Contains(t, out, `"name":"Shipping","kind":"limited","price":10,"quantity":250,"maximum":1,"promotion":null}`)
}

func TestRenderOrderError(t *testing.T) {
	err := &store.LineError{Line: 2, Applied: decimal.RequireFromString("12.5"), Err: store.ErrProductNotInStore}

	var text bytes.Buffer
	require.NoError(t, textRenderer{}.orderError(&text, err))
	assert.Equal(t, "Error making order: order line 2: product not in store\n\n", text.String())

	var js bytes.Buffer
	require.NoError(t, jsonRenderer{}.orderError(&js, err))
	assert.Equal(t, `{"error":"order line 2: product not in store","line":2,"applied":12.5}`+"\n", js.String())
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatText, f)

	_, err = ParseFormat("xml")
	require.Error(t, err)
}
