package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/vfg2006/retail-sales-api/internal/config"
)

// Dialect identifica o banco por trás da conexão
type Dialect string

const (
	Postgres Dialect = config.DriverPostgres
	SQLite   Dialect = config.DriverSQLite
)

// SQLiteDriverName é o driver sqlite3 com LOWER dobrando Unicode, como o
// strings.ToLower usado na filtragem em memória. O LOWER nativo só dobra ASCII.
const SQLiteDriverName = "sqlite3_unicode"

func init() {
	sql.Register(SQLiteDriverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("lower", strings.ToLower, true)
		},
	})
}

// OpenSQLite abre um banco sqlite com as funções da aplicação registradas
func OpenSQLite(dsn string) (*sql.DB, error) {
	return sql.Open(SQLiteDriverName, dsn)
}

type Conn interface {
	Queryer
	Dialect() Dialect
	Placeholder() squirrel.PlaceholderFormat
	Close() error
	Ping(context.Context) error
	RunInTransaction(context.Context, *sql.TxOptions, func(*sql.Tx) error) error
}

type Connection struct {
	*sql.DB
	dialect Dialect
}

func NewConnection(
	ctx context.Context,
	cfg config.Database,
) (*Connection, error) {
	dialect := Dialect(cfg.Driver)

	var (
		db  *sql.DB
		err error
	)
	switch dialect {
	case Postgres:
		db, err = sql.Open(string(dialect), cfg.DSN)
	case SQLite:
		db, err = OpenSQLite(sqliteDSN(cfg.DSN, cfg.ReadOnly))
	default:
		return nil, fmt.Errorf("database: driver não suportado %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if dialect == SQLite && !cfg.ReadOnly {
		// sqlite serializa escritas; uma conexão evita SQLITE_BUSY durante a importação
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Connection{DB: db, dialect: dialect}, nil
}

// Wrap usa um *sql.DB já aberto, como o de testes com sqlmock ou sqlite em memória
func Wrap(db *sql.DB, dialect Dialect) *Connection {
	return &Connection{DB: db, dialect: dialect}
}

func (c *Connection) Dialect() Dialect {
	return c.dialect
}

// Placeholder retorna o formato de parâmetros do dialeto ($1 no Postgres, ? no sqlite)
func (c *Connection) Placeholder() squirrel.PlaceholderFormat {
	if c.dialect == Postgres {
		return squirrel.Dollar
	}
	return squirrel.Question
}

func (c *Connection) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// RunInTransaction run a query in the transaction
func (c *Connection) RunInTransaction(ctx context.Context, opts *sql.TxOptions, fn func(*sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if err := recover(); err != nil {
			_ = tx.Rollback()
			panic(err)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

func sqliteDSN(path string, readOnly bool) string {
	if !readOnly || strings.Contains(path, "mode=") {
		return path
	}

	if !strings.HasPrefix(path, "file:") {
		path = "file:" + (&url.URL{Path: path}).EscapedPath()
	}

	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + "mode=ro"
}
