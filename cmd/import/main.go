package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/vfg2006/retail-sales-api/infrastructure/database"
	"github.com/vfg2006/retail-sales-api/infrastructure/loader"
	"github.com/vfg2006/retail-sales-api/infrastructure/repository"
	"github.com/vfg2006/retail-sales-api/internal/config"
	"github.com/vfg2006/retail-sales-api/internal/domain"
	"github.com/vfg2006/retail-sales-api/pkg/log"
)

const batchSize = 1000

func main() {
	migrateOnly := flag.Bool("migrate", false, "apenas adiciona colunas ausentes em uma base existente")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		log.L.Fatal(err)
	}
	log.Setup(cfg.App.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	conn, err := openWritable(ctx, cfg.Database)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao abrir a base de vendas")
	}
	defer conn.Close()

	if *migrateOnly {
		if err := migrate(ctx, conn); err != nil {
			log.L.WithError(err).Fatal("Erro na migração")
		}
		return
	}

	if err := cfg.RequireCSV(); err != nil {
		log.L.Fatal(err)
	}

	if err := run(ctx, conn, loader.NewCSVLoader(cfg.DataSource.CSVURL)); err != nil {
		log.L.WithError(err).Fatal("Importação interrompida")
	}
}

// openWritable abre a base em modo escrita, criando a pasta do arquivo sqlite se preciso
func openWritable(ctx context.Context, dbConfig config.Database) (*database.Connection, error) {
	dbConfig.ReadOnly = false

	if dbConfig.Driver == config.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(dbConfig.DSN), 0o755); err != nil {
			return nil, errors.Wrap(err, "erro ao criar pasta da base")
		}
		log.L.Infof("Usando base SQLite em: %s", dbConfig.DSN)
	}

	return database.NewConnection(ctx, dbConfig)
}

func migrate(ctx context.Context, conn database.Conn) error {
	added, err := repository.MigrateSchema(ctx, conn)
	if err != nil {
		return errors.Wrap(err, "erro ao migrar colunas")
	}

	if len(added) == 0 {
		log.L.Info("Nenhuma coluna ausente, a base já está atualizada")
		return nil
	}

	log.L.Infof("Colunas adicionadas: %v", added)
	return nil
}

func run(ctx context.Context, conn database.Conn, source *loader.CSVLoader) error {
	startTime := time.Now()

	if err := repository.CreateSchema(ctx, conn); err != nil {
		return errors.Wrap(err, "erro ao criar tabela sales")
	}
	if err := migrate(ctx, conn); err != nil {
		return err
	}

	log.L.Infof("Lendo CSV de: %s", source.Source)

	buffer := make([]*domain.SaleRecord, 0, batchSize)
	total := 0

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		if err := repository.InsertBatch(ctx, conn, buffer); err != nil {
			return errors.Wrapf(err, "erro ao inserir lote após %d linhas", total)
		}
		total += len(buffer)
		buffer = buffer[:0]
		log.L.Infof("Progresso: %d linhas importadas", total)
		return nil
	}

	report, err := source.Each(ctx, func(record *domain.SaleRecord) error {
		buffer = append(buffer, record)
		if len(buffer) >= batchSize {
			return flush()
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "erro ao ler CSV")
	}
	if err := flush(); err != nil {
		return err
	}

	log.L.WithFields(log.Fields{
		"sales_rows":      total,
		"sales_bad_dates": report.UnparseableDates,
	}).Infof("Importação concluída em %v", time.Since(startTime))

	if report.UnparseableDates > 0 {
		log.L.Warnf("%d linhas com datas fora do formato ISO ficam fora dos filtros de data", report.UnparseableDates)
	}

	return nil
}
