package query

import (
	"sort"
	"strings"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/retail-sales-api/internal/domain"
)

func intPtr(i int) *int       { return &i }
func strPtr(s string) *string { return &s }
func normalized(q domain.SalesQuery) domain.SalesQuery {
	q.Normalize(domain.DefaultPageSize, domain.MaxPageSize)
	return q
}

func TestNewPlan_NoFilters(t *testing.T) {
	plan := NewPlan(normalized(domain.SalesQuery{}))

	assert.Empty(t, plan.Clauses)
	assert.Nil(t, plan.Where())

	sql, args, err := CountQuery(plan).ToSql()
	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM sales", sql)
	assert.Empty(t, args)

	sql, _, err = PageQuery(plan).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "ORDER BY date DESC")
	assert.Contains(t, sql, "LIMIT 10")
	assert.Contains(t, sql, "OFFSET 0")
}

func TestNewPlan_EmptySetEqualsOmitted(t *testing.T) {
	omitted := NewPlan(normalized(domain.SalesQuery{}))
	empty := NewPlan(normalized(domain.SalesQuery{
		Regions:        []string{},
		Genders:        []string{""},
		Categories:     []string{},
		PaymentMethods: []string{"", ""},
		Tags:           []string{},
	}))

	omittedSQL, omittedArgs, err := CountQuery(omitted).ToSql()
	require.NoError(t, err)
	emptySQL, emptyArgs, err := CountQuery(empty).ToSql()
	require.NoError(t, err)

	assert.Equal(t, omittedSQL, emptySQL)
	assert.Equal(t, omittedArgs, emptyArgs)
	assert.NotContains(t, emptySQL, "1=0")
}

func TestNewPlan_AllFilters(t *testing.T) {
	q := normalized(domain.SalesQuery{
		Search:         "  John ",
		Regions:        []string{"North", "South"},
		Genders:        []string{"Female"},
		AgeMin:         intPtr(18),
		AgeMax:         intPtr(40),
		Categories:     []string{"Beauty"},
		Tags:           []string{"sale", "organic"},
		PaymentMethods: []string{"UPI"},
		DateFrom:       strPtr("2023-01-01"),
		DateTo:         strPtr("2023-12-31"),
		SortBy:         domain.SortByQuantity,
		SortOrder:      "asc",
		Page:           3,
		PageSize:       20,
	})
	plan := NewPlan(q)

	require.Len(t, plan.Clauses, 8)
	assert.Equal(t, uint64(20), plan.Limit)
	assert.Equal(t, uint64(40), plan.Offset)

	sql, args, err := CountQuery(plan).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT COUNT(*) FROM sales WHERE ("+
			`(LOWER(customer_name) LIKE ? ESCAPE '\' OR LOWER(phone_number) LIKE ? ESCAPE '\')`+
			" AND customer_region IN (?,?)"+
			" AND gender IN (?)"+
			" AND (age >= ? AND age <= ?)"+
			" AND product_category IN (?)"+
			` AND (LOWER(tags) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\')`+
			" AND payment_method IN (?)"+
			" AND (date >= ? AND date <= ?))",
		sql,
	)
	assert.Equal(t, []interface{}{
		"%john%", "%john%",
		"North", "South",
		"Female",
		18, 40,
		"Beauty",
		"%sale%", "%organic%",
		"UPI",
		"2023-01-01", "2023-12-31",
	}, args)
}

func TestCountAndPageShareThePredicate(t *testing.T) {
	plan := NewPlan(normalized(domain.SalesQuery{
		Search:  "98765",
		Regions: []string{"East"},
		AgeMin:  intPtr(30),
		DateTo:  strPtr("2022-06-30"),
	}))

	countSQL, countArgs, err := CountQuery(plan).PlaceholderFormat(squirrel.Dollar).ToSql()
	require.NoError(t, err)
	pageSQL, pageArgs, err := PageQuery(plan).PlaceholderFormat(squirrel.Dollar).ToSql()
	require.NoError(t, err)

	whereOf := func(sql string) string {
		start := strings.Index(sql, " WHERE ")
		end := strings.Index(sql, " ORDER BY ")
		if end < 0 {
			end = len(sql)
		}
		return sql[start:end]
	}

	assert.Equal(t, whereOf(countSQL), whereOf(pageSQL))
	assert.Equal(t, countArgs, pageArgs)
	assert.Contains(t, countSQL, "$1")
	assert.NotContains(t, countSQL, "?")
}

func TestPageQuery_Ordering(t *testing.T) {
	tests := []struct {
		sortBy    domain.SortKey
		sortOrder domain.SortOrder
		want      string
	}{
		{domain.SortByDate, domain.SortAsc, "ORDER BY date ASC"},
		{domain.SortByQuantity, domain.SortDesc, "ORDER BY quantity DESC"},
		{domain.SortByCustomerName, domain.SortAsc, "ORDER BY LOWER(customer_name) ASC"},
		{"unknown", domain.SortAsc, "ORDER BY date DESC"},
	}

	for _, tt := range tests {
		t.Run(string(tt.sortBy), func(t *testing.T) {
			plan := NewPlan(normalized(domain.SalesQuery{SortBy: tt.sortBy, SortOrder: tt.sortOrder}))
			sql, _, err := PageQuery(plan).ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.want)
		})
	}
}

func TestSearch_EscapesLikeWildcards(t *testing.T) {
	plan := NewPlan(normalized(domain.SalesQuery{Search: `50%_off\`}))

	_, args, err := CountQuery(plan).ToSql()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{`%50\%\_off\\%`, `%50\%\_off\\%`}, args)
}

func TestDistinctQuery(t *testing.T) {
	sql, args, err := DistinctQuery(FieldRegion).PlaceholderFormat(squirrel.Dollar).ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT DISTINCT customer_region FROM sales WHERE customer_region IS NOT NULL AND customer_region <> $1 ORDER BY customer_region",
		sql,
	)
	assert.Equal(t, []interface{}{""}, args)
}

func TestSort_Less(t *testing.T) {
	t.Run("quantidade decrescente", func(t *testing.T) {
		records := []*domain.SaleRecord{{Quantity: 3}, {Quantity: 1}, {Quantity: 2}}
		s := Sort{Key: domain.SortByQuantity, Order: domain.SortDesc}
		sort.SliceStable(records, func(i, j int) bool { return s.Less(records[i], records[j]) })

		got := []int{records[0].Quantity, records[1].Quantity, records[2].Quantity}
		assert.Equal(t, []int{3, 2, 1}, got)
	})

	t.Run("nome do cliente sem diferenciar maiúsculas", func(t *testing.T) {
		records := []*domain.SaleRecord{{CustomerName: "bob"}, {CustomerName: "Alice"}}
		s := Sort{Key: domain.SortByCustomerName, Order: domain.SortAsc}
		sort.SliceStable(records, func(i, j int) bool { return s.Less(records[i], records[j]) })

		assert.Equal(t, "Alice", records[0].CustomerName)
		assert.Equal(t, "bob", records[1].CustomerName)
	})

	t.Run("data crescente em texto ISO", func(t *testing.T) {
		records := []*domain.SaleRecord{{Date: "2023-02-10"}, {Date: "2021-12-31"}, {Date: "2023-01-05"}}
		s := Sort{Key: domain.SortByDate, Order: domain.SortAsc}
		sort.SliceStable(records, func(i, j int) bool { return s.Less(records[i], records[j]) })

		assert.Equal(t, "2021-12-31", records[0].Date)
		assert.Equal(t, "2023-01-05", records[1].Date)
		assert.Equal(t, "2023-02-10", records[2].Date)
	})
}
