package main

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/pkg/salesclient"
)

func TestRenderPage(t *testing.T) {
	region := "North"
	page := &salesclient.Page{
		Data: []salesclient.Record{
			{
				TransactionID:  "T-1",
				Date:           "2023-01-10",
				CustomerName:   "John Doe",
				PhoneNumber:    "+91 98765 43210",
				Quantity:       2,
				TotalAmount:    decimal.RequireFromString("125000"),
				FinalAmount:    decimal.RequireFromString("123456"),
				CustomerRegion: &region,
			},
		},
		Pagination: domain.NewPagination(10, 10, 200),
	}

	var out bytes.Buffer
	renderPage(&out, page)

	text := out.String()
	assert.Contains(t, text, "Total units sold: 2")
	assert.Contains(t, text, "₹1,23,456 (1 SR)")
	assert.Contains(t, text, "₹1,544 (1 SR)")
	assert.Contains(t, text, "9876543210")
	assert.Contains(t, text, "Página 10 de 20 (200 vendas)")
	assert.Contains(t, text, "1 ... 9 [10] 11 12")
}

func TestRenderPage_Empty(t *testing.T) {
	var out bytes.Buffer
	renderPage(&out, &salesclient.Page{Pagination: domain.NewPagination(1, 10, 0)})

	assert.Contains(t, out.String(), "Nenhuma venda encontrada.")
	assert.Contains(t, out.String(), "(0 SRs)")
}

func TestListFlag(t *testing.T) {
	var l listFlag
	assert.NoError(t, l.Set("North, South"))
	assert.NoError(t, l.Set("East"))
	assert.Equal(t, listFlag{"North", "South", "East"}, l)
}

func TestRenderFilters(t *testing.T) {
	var out bytes.Buffer
	renderFilters(&out, &domain.FilterOptions{Regions: []string{"North", "South"}, Tags: []string{"sale"}})

	assert.Contains(t, out.String(), "North, South")
	assert.Contains(t, out.String(), "sale")
}
