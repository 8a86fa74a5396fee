package query

import (
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/retail-sales-api/internal/domain"
)

// Sort é a ordenação por uma única chave. Empates não têm ordem definida.
type Sort struct {
	Key   domain.SortKey
	Order domain.SortOrder
}

// OrderBy retorna a expressão ORDER BY equivalente
func (s Sort) OrderBy() string {
	direction := "DESC"
	if s.Order == domain.SortAsc {
		direction = "ASC"
	}

	switch s.Key {
	case domain.SortByQuantity:
		return FieldQuantity.Column + " " + direction
	case domain.SortByCustomerName:
		return "LOWER(" + FieldCustomerName.Column + ") " + direction
	default:
		return FieldDate.Column + " " + direction
	}
}

// Less compara dois registros com a mesma semântica de OrderBy
func (s Sort) Less(a, b *domain.SaleRecord) bool {
	if s.Order != domain.SortAsc {
		a, b = b, a
	}

	switch s.Key {
	case domain.SortByQuantity:
		return a.Quantity < b.Quantity
	case domain.SortByCustomerName:
		return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
	default:
		return a.Date < b.Date
	}
}

// Plan é a lista ordenada de cláusulas ativas mais ordenação e janela da página
type Plan struct {
	Clauses []Clause
	Sort    Sort
	Limit   uint64
	Offset  uint64
}

// NewPlan compila uma requisição já normalizada. Dimensões vazias não geram cláusula.
func NewPlan(q domain.SalesQuery) Plan {
	clauses := make([]Clause, 0, 8)

	if q.Search != "" {
		clauses = append(clauses, Search{
			Fields: []Field{FieldCustomerName, FieldPhoneNumber},
			Term:   q.Search,
		})
	}
	if len(q.Regions) > 0 {
		clauses = append(clauses, InSet{Field: FieldRegion, Values: q.Regions})
	}
	if len(q.Genders) > 0 {
		clauses = append(clauses, InSet{Field: FieldGender, Values: q.Genders})
	}
	if q.AgeMin != nil || q.AgeMax != nil {
		clauses = append(clauses, AgeRange(q.AgeMin, q.AgeMax))
	}
	if len(q.Categories) > 0 {
		clauses = append(clauses, InSet{Field: FieldCategory, Values: q.Categories})
	}
	if len(q.Tags) > 0 {
		clauses = append(clauses, AnySubstring{Field: FieldTags, Needles: q.Tags})
	}
	if len(q.PaymentMethods) > 0 {
		clauses = append(clauses, InSet{Field: FieldPaymentMethod, Values: q.PaymentMethods})
	}
	if q.DateFrom != nil || q.DateTo != nil {
		clauses = append(clauses, DateRange(q.DateFrom, q.DateTo))
	}

	var offset uint64
	if o := q.Offset(); o > 0 {
		offset = uint64(o)
	}

	var limit uint64
	if q.PageSize > 0 {
		limit = uint64(q.PageSize)
	}

	return Plan{
		Clauses: clauses,
		Sort:    Sort{Key: q.SortBy, Order: q.SortOrder},
		Limit:   limit,
		Offset:  offset,
	}
}

// Where retorna a conjunção de todas as cláusulas, ou nil quando não há filtro
func (p Plan) Where() squirrel.Sqlizer {
	if len(p.Clauses) == 0 {
		return nil
	}

	conjunction := make(squirrel.And, 0, len(p.Clauses))
	for _, c := range p.Clauses {
		conjunction = append(conjunction, c)
	}
	return conjunction
}

// Match avalia a mesma conjunção sobre um registro em memória
func (p Plan) Match(r *domain.SaleRecord) bool {
	for _, c := range p.Clauses {
		if !c.Match(r) {
			return false
		}
	}
	return true
}

// CountQuery conta as linhas que satisfazem o predicado do plano
func CountQuery(p Plan) squirrel.SelectBuilder {
	builder := squirrel.Select("COUNT(*)").From(Table)
	if where := p.Where(); where != nil {
		builder = builder.Where(where)
	}
	return builder
}

// PageQuery busca a página ordenada com o mesmo predicado de CountQuery
func PageQuery(p Plan) squirrel.SelectBuilder {
	builder := squirrel.Select(Columns...).From(Table)
	if where := p.Where(); where != nil {
		builder = builder.Where(where)
	}

	builder = builder.OrderBy(p.Sort.OrderBy())
	if p.Limit > 0 {
		builder = builder.Limit(p.Limit).Offset(p.Offset)
	}
	return builder
}

// DistinctQuery lista os valores distintos, não nulos e não vazios de uma coluna
func DistinctQuery(f Field) squirrel.SelectBuilder {
	return squirrel.Select(f.Column).
		Distinct().
		From(Table).
		Where(squirrel.NotEq{f.Column: nil}).
		Where(squirrel.NotEq{f.Column: ""}).
		OrderBy(f.Column)
}
