package main

import (
	"context"

	"github.com/vfg2006/retail-sales-api/infrastructure/database"
	"github.com/vfg2006/retail-sales-api/infrastructure/loader"
	"github.com/vfg2006/retail-sales-api/infrastructure/repository"
	"github.com/vfg2006/retail-sales-api/internal/api"
	"github.com/vfg2006/retail-sales-api/internal/api/handler"
	"github.com/vfg2006/retail-sales-api/internal/config"
	"github.com/vfg2006/retail-sales-api/internal/scheduler"
	"github.com/vfg2006/retail-sales-api/internal/snapshot"
	"github.com/vfg2006/retail-sales-api/internal/usecases/authenticating"
	"github.com/vfg2006/retail-sales-api/internal/usecases/selling"
	"github.com/vfg2006/retail-sales-api/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		// Sem fonte de dados nenhuma requisição pode ser atendida
		log.L.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	log.L.Infof("Nível de log configurado para: %s", cfg.App.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		salesRepo repository.SalesRepository
		reloader  handler.SnapshotReloader
	)

	switch cfg.DataSource.Kind {
	case config.DataSourceCSV:
		store := snapshot.NewStore(loader.NewCSVLoader(cfg.DataSource.CSVURL))
		if _, err := store.Reload(ctx); err != nil {
			// O servidor sobe mesmo assim; as consultas respondem SRV_005 até uma recarga bem-sucedida
			log.L.WithError(err).Error("Erro ao carregar o snapshot inicial")
		}

		reloadService := scheduler.NewSnapshotReloadService(store, cfg)
		if err := reloadService.Start(ctx); err != nil {
			log.L.WithError(err).Error("Erro ao iniciar o agendador de recarga do snapshot")
		} else {
			log.L.Info("Agendador de recarga do snapshot iniciado com sucesso")
		}

		salesRepo = store
		reloader = reloadService
	default:
		conn := dbconn(ctx, cfg.Database)
		defer conn.Close()

		salesRepo = repository.NewSalesRepository(conn)
	}

	salesService := selling.NewService(salesRepo, cfg.Query)
	authenticator := authenticating.NewService(cfg.SecretKey)

	server, err := api.New(cfg, salesService, authenticator, reloader)
	if err != nil {
		log.L.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		log.L.Error(err)
	}
}

// dbconn abre a base de vendas somente para leitura
func dbconn(ctx context.Context, dbConfig config.Database) *database.Connection {
	dbConfig.ReadOnly = true

	conn, err := database.NewConnection(ctx, dbConfig)
	if err != nil {
		log.L.WithError(err).Fatal("Erro ao conectar à base de vendas. Para criá-la, execute: go run ./cmd/import")
	}

	log.L.WithField("driver", dbConfig.Driver).Info("Conexão com a base de vendas estabelecida com sucesso")
	return conn
}
