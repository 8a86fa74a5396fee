package domain

import (
	"math"
	"strings"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// SortKey identifica a coluna de ordenação
type SortKey string

const (
	SortByDate         SortKey = "date"
	SortByQuantity     SortKey = "quantity"
	SortByCustomerName SortKey = "customerName"
)

// SortOrder define a direção da ordenação
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// ParseSortOrder aceita asc/desc sem diferenciar maiúsculas. Qualquer outro valor vira desc.
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(strings.TrimSpace(s), string(SortAsc)) {
		return SortAsc
	}
	return SortDesc
}

// ParseSort resolve a chave e a direção de ordenação.
// Chaves desconhecidas caem no padrão: data decrescente, ignorando a direção pedida.
func ParseSort(sortBy, sortOrder string) (SortKey, SortOrder) {
	switch SortKey(strings.TrimSpace(sortBy)) {
	case SortByDate:
		return SortByDate, ParseSortOrder(sortOrder)
	case SortByQuantity:
		return SortByQuantity, ParseSortOrder(sortOrder)
	case SortByCustomerName:
		return SortByCustomerName, ParseSortOrder(sortOrder)
	default:
		return SortByDate, SortDesc
	}
}

// SalesQuery descreve uma requisição de listagem de vendas.
// Conjuntos vazios não geram predicado (não confundir com "não casa nada").
type SalesQuery struct {
	Search         string
	Regions        []string
	Genders        []string
	Categories     []string
	PaymentMethods []string
	Tags           []string
	AgeMin         *int
	AgeMax         *int
	DateFrom       *string
	DateTo         *string
	SortBy         SortKey
	SortOrder      SortOrder
	Page           int
	PageSize       int
}

// Normalize aplica a política de valores padrão. Nunca rejeita a requisição:
// page <= 0 vira 1, pageSize fora do intervalo vira o padrão ou o máximo.
func (q *SalesQuery) Normalize(defaultPageSize, maxPageSize int) {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	if maxPageSize <= 0 {
		maxPageSize = MaxPageSize
	}
	if defaultPageSize > maxPageSize {
		defaultPageSize = maxPageSize
	}

	if q.Page <= 0 {
		q.Page = DefaultPage
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
	// (Page-1)*PageSize precisa caber em int
	if limit := math.MaxInt / q.PageSize; q.Page > limit {
		q.Page = limit
	}

	q.SortBy, q.SortOrder = ParseSort(string(q.SortBy), string(q.SortOrder))

	q.Search = strings.TrimSpace(q.Search)
	q.Regions = compactValues(q.Regions)
	q.Genders = compactValues(q.Genders)
	q.Categories = compactValues(q.Categories)
	q.PaymentMethods = compactValues(q.PaymentMethods)
	q.Tags = compactValues(q.Tags)

	q.DateFrom = trimmedOrNil(q.DateFrom)
	q.DateTo = trimmedOrNil(q.DateTo)
}

// Offset retorna (page - 1) * pageSize. Deve ser chamado após Normalize.
func (q *SalesQuery) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// compactValues remove espaços nas pontas, valores vazios e repetidos mantendo a ordem
func compactValues(values []string) []string {
	if len(values) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
