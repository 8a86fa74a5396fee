// Package query compila os filtros de listagem de vendas em cláusulas de predicado.
//
// Cada cláusula sabe se traduzir para SQL (squirrel.Sqlizer) e se avaliar sobre um
// registro em memória (Match). A contagem e a página usam o mesmo Plan, então o
// total nunca diverge dos dados retornados.
package query

import "github.com/vfg2006/retail-sales-api/internal/domain"

// Table é a tabela desnormalizada de vendas
const Table = "sales"

// Field liga uma coluna de texto da tabela ao campo correspondente do registro
type Field struct {
	Column string
	value  func(r *domain.SaleRecord) (string, bool)
}

// Value retorna o valor do campo e false quando ele é nulo
func (f Field) Value(r *domain.SaleRecord) (string, bool) {
	return f.value(r)
}

// IntField liga uma coluna inteira ao campo correspondente do registro
type IntField struct {
	Column string
	value  func(r *domain.SaleRecord) (int, bool)
}

// Value retorna o valor do campo e false quando ele é nulo
func (f IntField) Value(r *domain.SaleRecord) (int, bool) {
	return f.value(r)
}

func nullable(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

var (
	FieldCustomerName = Field{Column: "customer_name", value: func(r *domain.SaleRecord) (string, bool) {
		return r.CustomerName, true
	}}
	FieldPhoneNumber = Field{Column: "phone_number", value: func(r *domain.SaleRecord) (string, bool) {
		return r.PhoneNumber, true
	}}
	FieldRegion = Field{Column: "customer_region", value: func(r *domain.SaleRecord) (string, bool) {
		return nullable(r.CustomerRegion)
	}}
	FieldGender = Field{Column: "gender", value: func(r *domain.SaleRecord) (string, bool) {
		return nullable(r.Gender)
	}}
	FieldCategory = Field{Column: "product_category", value: func(r *domain.SaleRecord) (string, bool) {
		return r.ProductCategory, true
	}}
	FieldPaymentMethod = Field{Column: "payment_method", value: func(r *domain.SaleRecord) (string, bool) {
		return r.PaymentMethod, true
	}}
	FieldTags = Field{Column: "tags", value: func(r *domain.SaleRecord) (string, bool) {
		return r.Tags, true
	}}
	FieldDate = Field{Column: "date", value: func(r *domain.SaleRecord) (string, bool) {
		return r.Date, true
	}}

	FieldAge = IntField{Column: "age", value: func(r *domain.SaleRecord) (int, bool) {
		if r.Age == nil {
			return 0, false
		}
		return *r.Age, true
	}}
	FieldQuantity = IntField{Column: "quantity", value: func(r *domain.SaleRecord) (int, bool) {
		return r.Quantity, true
	}}
)

// Columns é a lista de colunas lidas pela consulta de página, na ordem do Scan
var Columns = []string{
	"transaction_id",
	"date",
	"customer_id",
	"customer_name",
	"phone_number",
	"gender",
	"age",
	"city",
	"customer_region",
	"product",
	"product_id",
	"product_category",
	"quantity",
	"price_per_unit",
	"discount_percentage",
	"total_amount",
	"final_amount",
	"payment_method",
	"tags",
	"employee_name",
}
