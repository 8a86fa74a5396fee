package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/retail-sales-api/infrastructure/database"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/internal/query"
)

// rowsPerStatement mantém cada INSERT abaixo do limite de parâmetros do sqlite
const rowsPerStatement = 500

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT,
		customer_id TEXT,
		customer_name TEXT,
		age INTEGER,
		city TEXT,
		customer_region TEXT,
		gender TEXT,
		date TEXT,
		product TEXT,
		product_id TEXT,
		product_category TEXT,
		quantity INTEGER,
		price_per_unit REAL,
		discount_percentage REAL,
		total_amount REAL,
		final_amount REAL,
		phone_number TEXT,
		payment_method TEXT,
		tags TEXT,
		employee_name TEXT
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS sales (
		id BIGSERIAL PRIMARY KEY,
		transaction_id TEXT,
		customer_id TEXT,
		customer_name TEXT,
		age INTEGER,
		city TEXT,
		customer_region TEXT,
		gender TEXT,
		date TEXT,
		product TEXT,
		product_id TEXT,
		product_category TEXT,
		quantity INTEGER,
		price_per_unit NUMERIC(14, 2),
		discount_percentage NUMERIC(6, 2),
		total_amount NUMERIC(14, 2),
		final_amount NUMERIC(14, 2),
		phone_number TEXT,
		payment_method TEXT,
		tags TEXT,
		employee_name TEXT
	)`,
}

var indexes = map[string]string{
	"idx_customer_name":  "customer_name",
	"idx_phone_number":   "phone_number",
	"idx_date":           "date",
	"idx_region":         "customer_region",
	"idx_gender":         "gender",
	"idx_category":       "product_category",
	"idx_payment_method": "payment_method",
}

// lateColumns foram adicionadas depois da primeira versão da tabela
var lateColumns = []string{"customer_id", "product_id", "employee_name"}

// CreateSchema cria a tabela sales e os índices de busca e filtro, se não existirem
func CreateSchema(ctx context.Context, conn database.Conn) error {
	statements := append([]string{}, sqliteSchema...)
	if conn.Dialect() == database.Postgres {
		statements = append([]string{}, postgresSchema...)
	}

	for name, column := range indexes {
		statements = append(statements,
			fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", name, query.Table, column))
	}

	for _, stmt := range statements {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("erro ao criar o schema: %w", err)
		}
	}

	return nil
}

// MigrateSchema adiciona colunas ausentes em bancos criados por versões antigas.
// Retorna as colunas adicionadas; elas ficam NULL nas linhas existentes.
func MigrateSchema(ctx context.Context, conn database.Conn) ([]string, error) {
	existing, err := existingColumns(ctx, conn)
	if err != nil {
		return nil, err
	}

	added := []string{}
	for _, column := range lateColumns {
		if _, ok := existing[column]; ok {
			continue
		}

		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", query.Table, column)
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			return added, fmt.Errorf("erro ao adicionar a coluna %s: %w", column, err)
		}
		added = append(added, column)
	}

	return added, nil
}

func existingColumns(ctx context.Context, conn database.Conn) (map[string]struct{}, error) {
	var (
		stmt string
		args []interface{}
	)

	if conn.Dialect() == database.Postgres {
		stmt, args = "SELECT column_name FROM information_schema.columns WHERE table_name = $1", []interface{}{query.Table}
	} else {
		stmt = "SELECT name FROM pragma_table_info('" + query.Table + "')"
	}

	rows, err := conn.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler as colunas de %s: %w", query.Table, err)
	}
	defer rows.Close()

	columns := map[string]struct{}{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("erro ao escanear coluna: %w", err)
		}
		columns[strings.ToLower(name)] = struct{}{}
	}

	return columns, rows.Err()
}

// InsertBatch insere os registros em uma única transação
func InsertBatch(ctx context.Context, conn database.Conn, records []*domain.SaleRecord) error {
	if len(records) == 0 {
		return nil
	}

	return conn.RunInTransaction(ctx, nil, func(tx *sql.Tx) error {
		for start := 0; start < len(records); start += rowsPerStatement {
			end := min(start+rowsPerStatement, len(records))

			builder := squirrel.Insert(query.Table).
				Columns(query.Columns...).
				PlaceholderFormat(conn.Placeholder())
			for _, r := range records[start:end] {
				builder = builder.Values(insertValues(r)...)
			}

			stmt, args, err := builder.ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
				return fmt.Errorf("erro ao inserir vendas: %w", err)
			}
		}
		return nil
	})
}

// insertValues segue a ordem de query.Columns
func insertValues(r *domain.SaleRecord) []interface{} {
	var age interface{}
	if r.Age != nil {
		age = *r.Age
	}

	return []interface{}{
		r.TransactionID,
		r.Date,
		nullable(r.CustomerID),
		r.CustomerName,
		r.PhoneNumber,
		nullable(r.Gender),
		age,
		r.City,
		nullable(r.CustomerRegion),
		r.ProductName,
		nullable(r.ProductID),
		r.ProductCategory,
		r.Quantity,
		r.PricePerUnit.InexactFloat64(),
		r.DiscountPercentage.InexactFloat64(),
		r.TotalAmount.InexactFloat64(),
		r.FinalAmount.InexactFloat64(),
		r.PaymentMethod,
		r.Tags,
		nullable(r.EmployeeName),
	}
}

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
