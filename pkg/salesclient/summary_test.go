package salesclient

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	records := []Record{
		{Quantity: 2, TotalAmount: decimal.RequireFromString("1000"), FinalAmount: decimal.RequireFromString("900.50")},
		{Quantity: 3, TotalAmount: decimal.RequireFromString("200"), FinalAmount: decimal.RequireFromString("200")},
	}

	summary := Summarize(records)

	assert.Equal(t, 5, summary.TotalUnits)
	assert.Equal(t, 2, summary.TransactionCount)
	assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("1100.50")))
	assert.True(t, summary.TotalDiscount.Equal(decimal.RequireFromString("99.50")))
}

func TestSummarize_Empty(t *testing.T) {
	summary := Summarize(nil)

	assert.Zero(t, summary.TotalUnits)
	assert.Zero(t, summary.TransactionCount)
	assert.True(t, summary.TotalAmount.IsZero())
	assert.True(t, summary.TotalDiscount.IsZero())
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "₹0"},
		{"999", "₹999"},
		{"1000", "₹1,000"},
		{"123456", "₹1,23,456"},
		{"12345678.5", "₹1,23,45,679"},
		{"99.49", "₹99"},
		{"-1500", "-₹1,500"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatINR(decimal.RequireFromString(tt.amount)))
		})
	}
}

func TestPageNumbers(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    []int
	}{
		{"uma página", 1, 1, nil},
		{"poucas páginas", 2, 4, []int{1, 2, 3, 4}},
		{"exatamente seis", 6, 6, []int{1, 2, 3, 4, 5, 6}},
		{"início", 3, 20, []int{1, 2, 3, 4, 5, 6}},
		{"fim", 18, 20, []int{15, 16, 17, 18, 19, 20}},
		{"meio", 10, 20, []int{1, Ellipsis, 9, 10, 11, 12}},
		{"primeira posição do meio", 4, 20, []int{1, Ellipsis, 3, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageNumbers(tt.current, tt.total))
		})
	}
}

func TestFormatPhone(t *testing.T) {
	assert.Equal(t, "9876543210", FormatPhone("+91 98765 43210"))
	assert.Equal(t, "9876543210", FormatPhone("+919876543210"))
	assert.Equal(t, "9876543210", FormatPhone("9876543210"))
	assert.Equal(t, "", FormatPhone(""))
}
