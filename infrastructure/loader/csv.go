// Package loader lê o arquivo delimitado de vendas, local ou remoto.
package loader

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/retail-sales-api/internal/domain"
)

var ErrEmptySource = errors.New("loader: arquivo sem cabeçalho")

// Report resume uma leitura completa do arquivo
type Report struct {
	Rows             int
	UnparseableDates int
}

type CSVLoader struct {
	Source     string
	httpClient *http.Client
}

func NewCSVLoader(source string) *CSVLoader {
	return &CSVLoader{
		Source: source,
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
	}
}

// Load lê todos os registros para memória
func (l *CSVLoader) Load(ctx context.Context) ([]*domain.SaleRecord, Report, error) {
	records := make([]*domain.SaleRecord, 0, 1024)
	report, err := l.Each(ctx, func(r *domain.SaleRecord) error {
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, report, err
	}
	return records, report, nil
}

// Each percorre o arquivo linha a linha sem acumular os registros
func (l *CSVLoader) Each(ctx context.Context, fn func(*domain.SaleRecord) error) (Report, error) {
	var report Report

	body, err := l.open(ctx)
	if err != nil {
		return report, err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return report, ErrEmptySource
		}
		return report, fmt.Errorf("loader: erro ao ler o cabeçalho: %w", err)
	}
	columns := indexHeaders(headers)

	for {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		row, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return report, fmt.Errorf("loader: erro ao ler a linha %d: %w", report.Rows+2, err)
		}

		record, dateOK := columns.record(row)
		if !dateOK {
			report.UnparseableDates++
		}
		report.Rows++

		if err := fn(record); err != nil {
			return report, err
		}
	}

	return report, nil
}

func (l *CSVLoader) open(ctx context.Context) (io.ReadCloser, error) {
	if !strings.HasPrefix(l.Source, "http://") && !strings.HasPrefix(l.Source, "https://") {
		file, err := os.Open(l.Source)
		if err != nil {
			return nil, fmt.Errorf("loader: erro ao abrir %s: %w", l.Source, err)
		}
		return file, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("loader: erro ao criar a requisição: %w", err)
	}

	client := l.httpClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("loader: erro ao baixar o arquivo: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("loader: download falhou com status: %s", resp.Status)
	}

	return resp.Body, nil
}

// headerVariants lista os nomes aceitos para cada coluna, em ordem de preferência
var headerVariants = map[string][]string{
	"transaction_id":      {"Transaction ID", "Transaction Id", "transaction_id"},
	"date":                {"Date", "date"},
	"customer_id":         {"Customer ID", "Customer Id", "customer_id"},
	"customer_name":       {"Customer Name", "Customer name", "customer_name"},
	"phone_number":        {"Phone Number", "Phone number", "phone_number"},
	"gender":              {"Gender", "gender"},
	"age":                 {"Age", "age"},
	"customer_region":     {"Customer Region", "Customer region", "customer_region"},
	"city":                {"City", "city"},
	"product":             {"Product Name", "Product", "product"},
	"product_id":          {"Product ID", "Product Id", "product_id"},
	"product_category":    {"Product Category", "Product category", "product_category"},
	"quantity":            {"Quantity", "quantity"},
	"price_per_unit":      {"Price per Unit", "Price Per Unit", "price_per_unit"},
	"discount_percentage": {"Discount Percentage", "discount_percentage"},
	"total_amount":        {"Total Amount", "total_amount"},
	"final_amount":        {"Final Amount", "final_amount"},
	"payment_method":      {"Payment Method", "payment_method"},
	"tags":                {"Tags", "tags"},
	"employee_name":       {"Employee Name", "Employee name", "employee_name", "Employee"},
}

type headerIndex map[string]int

func indexHeaders(headers []string) headerIndex {
	positions := make(map[string]int, len(headers))
	for i, h := range headers {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := positions[h]; !ok {
			positions[h] = i
		}
	}

	index := headerIndex{}
	for column, variants := range headerVariants {
		for _, v := range variants {
			if i, ok := positions[v]; ok {
				index[column] = i
				break
			}
		}
	}
	return index
}

func (h headerIndex) get(row []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (h headerIndex) record(row []string) (*domain.SaleRecord, bool) {
	date, dateOK := NormalizeDate(h.get(row, "date"))

	return &domain.SaleRecord{
		TransactionID:      h.get(row, "transaction_id"),
		CustomerID:         domain.StringPtr(h.get(row, "customer_id")),
		CustomerName:       h.get(row, "customer_name"),
		Age:                parseOptionalInt(h.get(row, "age")),
		City:               h.get(row, "city"),
		CustomerRegion:     domain.StringPtr(h.get(row, "customer_region")),
		Gender:             domain.StringPtr(h.get(row, "gender")),
		Date:               date,
		ProductName:        h.get(row, "product"),
		ProductID:          domain.StringPtr(h.get(row, "product_id")),
		ProductCategory:    h.get(row, "product_category"),
		Quantity:           parseInt(h.get(row, "quantity")),
		PricePerUnit:       parseDecimal(h.get(row, "price_per_unit")),
		DiscountPercentage: parseDecimal(h.get(row, "discount_percentage")),
		TotalAmount:        parseDecimal(h.get(row, "total_amount")),
		FinalAmount:        parseDecimal(h.get(row, "final_amount")),
		PhoneNumber:        h.get(row, "phone_number"),
		PaymentMethod:      h.get(row, "payment_method"),
		Tags:               h.get(row, "tags"),
		EmployeeName:       domain.StringPtr(h.get(row, "employee_name")),
	}, dateOK
}

var dateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateTime,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
}

// NormalizeDate converte as datas aceitas para YYYY-MM-DD, o único formato em que a
// comparação de texto equivale à cronológica. Datas irreconhecíveis voltam sem
// alteração (além do trim) e false.
func NormalizeDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), true
		}
	}

	return s, false
}

func parseOptionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return nil
		}
		v = int(f)
	}
	return &v
}

func parseInt(s string) int {
	if v := parseOptionalInt(s); v != nil {
		return *v
	}
	return 0
}

func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
