package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"", "abc", 3},
		{"abc", "", 3},
		{"a", "b", 1},
		{"ab", "abc", 1},
		{"kitten", "sitting", 3},
		{"saturday", "sunday", 3},
		{"Hello", "hello", 1},
		{"createdat", "updatedat", 3},
	}

	for _, tt := range tests {
		t.Run(tt.a+"_"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, Levenshtein(tt.a, tt.b))
			assert.Equal(t, tt.want, Levenshtein(tt.b, tt.a), "symmetry")
		})
	}
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, Similarity("OrderID", "order_id"), 1e-9)
	assert.InDelta(t, 1.0, Similarity("", ""), 1e-9)
	assert.InDelta(t, 1.0, Similarity("CustomerID", "Customer"), 1e-9, "suffix stripped")
	assert.Less(t, Similarity("Name", "Quantity"), DefaultThreshold)
	assert.GreaterOrEqual(t, Similarity("Nmae", "Name"), DefaultThreshold)
}

func TestNormalizeIdent(t *testing.T) {
	tests := map[string]string{
		"OrderID":    "orderid",
		"order_id":   "orderid",
		"order-id":   "orderid",
		"Created At": "createdat",
		"":           "",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizeIdent(in), in)
	}

	assert.Equal(t, "created", NormalizeIdentWithSuffixStrip("CreatedAt"))
	assert.Equal(t, "id", NormalizeIdentWithSuffixStrip("ID"))
	assert.Equal(t, "event", NormalizeIdentWithSuffixStrip("EventTimestamp"))
}

func TestTokenizeIdent(t *testing.T) {
	assert.Equal(t, []string{"get", "http", "response"}, TokenizeIdent("getHTTPResponse"))
	assert.Equal(t, []string{"xml", "parser"}, TokenizeIdent("XMLParser"))
	assert.Equal(t, []string{"order", "id"}, TokenizeIdent("order_id"))
	assert.Equal(t, []string{"order", "id"}, TokenizeIdent("OrderID"))
	assert.Nil(t, TokenizeIdent(""))
}

func TestSuggest(t *testing.T) {
	known := []string{"Name", "Names", "Age", "Address", "CreatedAt"}

	assert.Equal(t, []string{"Name", "Names"}, Suggest("Nam", known, 3))
	assert.Equal(t, []string{"Name"}, Suggest("Nam", known, 1))
	assert.Equal(t, []string{"Name"}, Suggest("Nmae", known, 3))
	assert.Equal(t, []string{"CreatedAt"}, Suggest("created", known, 3))
	assert.Empty(t, Suggest("Quantity", known, 3))
	assert.Empty(t, Suggest("Nmae", known, 0))
	assert.Empty(t, Suggest("Nmae", known, -1))
	assert.NotContains(t, Suggest("Name", known, 5), "Name")
}
