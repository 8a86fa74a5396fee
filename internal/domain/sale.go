// Package domain contém as estruturas de dados do domínio da aplicação
package domain

import (
	"github.com/shopspring/decimal"
)

// SaleRecord é uma linha desnormalizada da tabela sales (um item de transação).
// Campos ponteiro são anuláveis no armazenamento.
type SaleRecord struct {
	TransactionID      string
	CustomerID         *string
	CustomerName       string
	Age                *int
	City               string
	CustomerRegion     *string
	Gender             *string
	Date               string // Texto ISO YYYY-MM-DD, comparado lexicograficamente
	ProductName        string
	ProductID          *string
	ProductCategory    string
	Quantity           int
	PricePerUnit       decimal.Decimal
	DiscountPercentage decimal.Decimal
	TotalAmount        decimal.Decimal
	FinalAmount        decimal.Decimal
	PhoneNumber        string
	PaymentMethod      string
	Tags               string // Separado por vírgula, sem escape
	EmployeeName       *string
}

// SaleResponse é o formato externo de um registro. Os nomes dos campos fazem
// parte do contrato com o cliente e não podem mudar.
type SaleResponse struct {
	TransactionID   string  `json:"Transaction ID"`
	Date            string  `json:"Date"`
	CustomerID      *string `json:"Customer ID"`
	CustomerName    string  `json:"Customer Name"`
	PhoneNumber     string  `json:"Phone Number"`
	Gender          *string `json:"Gender"`
	Age             *int    `json:"Age"`
	ProductCategory string  `json:"Product Category"`
	ProductName     string  `json:"Product Name"`
	Quantity        int     `json:"Quantity"`
	TotalAmount     float64 `json:"Total Amount"`
	FinalAmount     float64 `json:"Final Amount"`
	CustomerRegion  *string `json:"Customer Region"`
	ProductID       *string `json:"Product ID"`
	EmployeeName    *string `json:"Employee Name"`
}

// ToResponse converte o registro interno para o formato externo
func (r *SaleRecord) ToResponse() SaleResponse {
	return SaleResponse{
		TransactionID:   r.TransactionID,
		Date:            r.Date,
		CustomerID:      r.CustomerID,
		CustomerName:    r.CustomerName,
		PhoneNumber:     r.PhoneNumber,
		Gender:          r.Gender,
		Age:             r.Age,
		ProductCategory: r.ProductCategory,
		ProductName:     r.ProductName,
		Quantity:        r.Quantity,
		TotalAmount:     r.TotalAmount.InexactFloat64(),
		FinalAmount:     r.FinalAmount.InexactFloat64(),
		CustomerRegion:  r.CustomerRegion,
		ProductID:       r.ProductID,
		EmployeeName:    r.EmployeeName,
	}
}

// SalesPage é a resposta do endpoint de listagem
type SalesPage struct {
	Data       []SaleResponse `json:"data"`
	Pagination Pagination     `json:"pagination"`
}

// NewSalesPage monta a página a partir dos registros e do envelope de paginação
func NewSalesPage(records []*SaleRecord, pagination Pagination) *SalesPage {
	data := make([]SaleResponse, 0, len(records))
	for _, record := range records {
		data = append(data, record.ToResponse())
	}

	return &SalesPage{
		Data:       data,
		Pagination: pagination,
	}
}

// FilterOptions lista os valores distintos disponíveis para cada filtro
type FilterOptions struct {
	Regions        []string `json:"regions"`
	Genders        []string `json:"genders"`
	Categories     []string `json:"categories"`
	PaymentMethods []string `json:"paymentMethods"`
	Tags           []string `json:"tags"`
}

// StringPtr retorna um ponteiro para s, ou nil quando s é vazio
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
