package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/retail-sales-api/infrastructure/database"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/internal/query"
)

//go:generate mockgen -source=sales.go -destination=mocks/sales.go -package=mocks

type SalesRepository interface {
	FindPage(ctx context.Context, plan query.Plan) ([]*domain.SaleRecord, int64, error)
	ListDistinct(ctx context.Context, field query.Field) ([]string, error)
	ListRawTags(ctx context.Context) ([]string, error)
}

type salesRepository struct {
	conn database.Conn
}

func NewSalesRepository(conn database.Conn) SalesRepository {
	return &salesRepository{
		conn: conn,
	}
}

// FindPage executa a contagem e a página na mesma transação somente leitura,
// então o total sempre corresponde ao mesmo estado dos dados retornados.
func (r *salesRepository) FindPage(ctx context.Context, plan query.Plan) ([]*domain.SaleRecord, int64, error) {
	countQuery, countArgs, err := query.CountQuery(plan).
		PlaceholderFormat(r.conn.Placeholder()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao construir a query de contagem: %w", err)
	}

	pageQuery, pageArgs, err := query.PageQuery(plan).
		PlaceholderFormat(r.conn.Placeholder()).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var (
		total   int64
		records []*domain.SaleRecord
	)

	err = r.conn.RunInTransaction(ctx, &sql.TxOptions{ReadOnly: true}, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
			return fmt.Errorf("erro ao contar vendas: %w", err)
		}

		if total == 0 || int64(plan.Offset) >= total {
			return nil
		}

		rows, err := tx.QueryContext(ctx, pageQuery, pageArgs...)
		if err != nil {
			return fmt.Errorf("erro ao executar a query: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			record, err := scanSale(rows)
			if err != nil {
				return fmt.Errorf("erro ao escanear venda: %w", err)
			}
			records = append(records, record)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}

	if records == nil {
		records = []*domain.SaleRecord{}
	}

	return records, total, nil
}

func (r *salesRepository) ListDistinct(ctx context.Context, field query.Field) ([]string, error) {
	distinctQuery, args, err := query.DistinctQuery(field).
		PlaceholderFormat(r.conn.Placeholder()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, distinctQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar valores de %s: %w", field.Column, err)
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("erro ao escanear valor de %s: %w", field.Column, err)
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar valores de %s: %w", field.Column, err)
	}

	return values, nil
}

// ListRawTags retorna as strings de tags sem separar, uma por combinação distinta
func (r *salesRepository) ListRawTags(ctx context.Context) ([]string, error) {
	return r.ListDistinct(ctx, query.FieldTags)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(row scanner) (*domain.SaleRecord, error) {
	var (
		record         domain.SaleRecord
		customerID     sql.NullString
		gender         sql.NullString
		age            sql.NullInt64
		city           sql.NullString
		customerRegion sql.NullString
		productID      sql.NullString
		category       sql.NullString
		phone          sql.NullString
		payment        sql.NullString
		tags           sql.NullString
		employee       sql.NullString
		quantity       sql.NullInt64
		pricePerUnit   decimal.NullDecimal
		discount       decimal.NullDecimal
		totalAmount    decimal.NullDecimal
		finalAmount    decimal.NullDecimal
	)

	// mesma ordem de query.Columns
	err := row.Scan(
		&record.TransactionID,
		&record.Date,
		&customerID,
		&record.CustomerName,
		&phone,
		&gender,
		&age,
		&city,
		&customerRegion,
		&record.ProductName,
		&productID,
		&category,
		&quantity,
		&pricePerUnit,
		&discount,
		&totalAmount,
		&finalAmount,
		&payment,
		&tags,
		&employee,
	)
	if err != nil {
		return nil, err
	}

	record.CustomerID = nullString(customerID)
	record.Gender = nullString(gender)
	record.CustomerRegion = nullString(customerRegion)
	record.ProductID = nullString(productID)
	record.EmployeeName = nullString(employee)
	if age.Valid {
		v := int(age.Int64)
		record.Age = &v
	}

	record.City = city.String
	record.ProductCategory = category.String
	record.PhoneNumber = phone.String
	record.PaymentMethod = payment.String
	record.Tags = tags.String
	record.Quantity = int(quantity.Int64)
	record.PricePerUnit = pricePerUnit.Decimal
	record.DiscountPercentage = discount.Decimal
	record.TotalAmount = totalAmount.Decimal
	record.FinalAmount = finalAmount.Decimal

	return &record, nil
}

func nullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
