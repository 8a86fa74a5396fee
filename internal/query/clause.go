package query

import (
	"cmp"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/retail-sales-api/internal/domain"
)

// Clause é uma condição independente contribuída por um parâmetro da requisição
type Clause interface {
	squirrel.Sqlizer
	Match(r *domain.SaleRecord) bool
}

// InSet exige que o campo seja igual a um dos valores (IN). Nunca é construída
// com um conjunto vazio: conjunto vazio significa "sem filtro".
type InSet struct {
	Field  Field
	Values []string
}

func (c InSet) ToSql() (string, []interface{}, error) {
	if len(c.Values) == 0 {
		return "", nil, fmt.Errorf("query: conjunto vazio para %s", c.Field.Column)
	}
	return squirrel.Eq{c.Field.Column: c.Values}.ToSql()
}

func (c InSet) Match(r *domain.SaleRecord) bool {
	v, ok := c.Field.Value(r)
	if !ok {
		return false
	}
	for _, want := range c.Values {
		if v == want {
			return true
		}
	}
	return false
}

// Range é um intervalo inclusivo com limites opcionais e independentes
type Range[T cmp.Ordered] struct {
	Column string
	Lower  *T
	Upper  *T
	value  func(r *domain.SaleRecord) (T, bool)
}

func (c Range[T]) ToSql() (string, []interface{}, error) {
	bounds := squirrel.And{}
	if c.Lower != nil {
		bounds = append(bounds, squirrel.GtOrEq{c.Column: *c.Lower})
	}
	if c.Upper != nil {
		bounds = append(bounds, squirrel.LtOrEq{c.Column: *c.Upper})
	}
	if len(bounds) == 0 {
		return "", nil, fmt.Errorf("query: intervalo sem limites para %s", c.Column)
	}
	return bounds.ToSql()
}

func (c Range[T]) Match(r *domain.SaleRecord) bool {
	v, ok := c.value(r)
	if !ok {
		return false
	}
	if c.Lower != nil && v < *c.Lower {
		return false
	}
	if c.Upper != nil && v > *c.Upper {
		return false
	}
	return true
}

// AgeRange filtra pela idade do cliente
func AgeRange(lower, upper *int) Range[int] {
	return Range[int]{Column: FieldAge.Column, Lower: lower, Upper: upper, value: FieldAge.Value}
}

// DateRange filtra pela data em texto; só funciona com datas ISO (YYYY-MM-DD)
func DateRange(from, to *string) Range[string] {
	return Range[string]{Column: FieldDate.Column, Lower: from, Upper: to, value: FieldDate.Value}
}

// Search casa o termo como substring, sem diferenciar maiúsculas, em qualquer um dos campos
type Search struct {
	Fields []Field
	Term   string
}

func (c Search) ToSql() (string, []interface{}, error) {
	pattern := likePattern(c.Term)
	anyOf := squirrel.Or{}
	for _, f := range c.Fields {
		anyOf = append(anyOf, likeExpr(f.Column, pattern))
	}
	return anyOf.ToSql()
}

func (c Search) Match(r *domain.SaleRecord) bool {
	term := strings.ToLower(c.Term)
	for _, f := range c.Fields {
		v, ok := f.Value(r)
		if ok && strings.Contains(strings.ToLower(v), term) {
			return true
		}
	}
	return false
}

// AnySubstring casa quando qualquer um dos trechos aparece no campo.
// Usado nas tags: "sale" casa "summer sale,clearance" (correspondência aproximada).
type AnySubstring struct {
	Field   Field
	Needles []string
}

func (c AnySubstring) ToSql() (string, []interface{}, error) {
	if len(c.Needles) == 0 {
		return "", nil, fmt.Errorf("query: nenhum trecho para %s", c.Field.Column)
	}
	anyOf := squirrel.Or{}
	for _, needle := range c.Needles {
		anyOf = append(anyOf, likeExpr(c.Field.Column, likePattern(needle)))
	}
	return anyOf.ToSql()
}

func (c AnySubstring) Match(r *domain.SaleRecord) bool {
	v, ok := c.Field.Value(r)
	if !ok {
		return false
	}
	v = strings.ToLower(v)
	for _, needle := range c.Needles {
		if strings.Contains(v, strings.ToLower(needle)) {
			return true
		}
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(term)) + "%"
}

func likeExpr(column, pattern string) squirrel.Sqlizer {
	return squirrel.Expr(fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, column), pattern)
}
