package main

import (
	"context"
	"flag"
	"math/rand"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/resonancehq/archetype-api/client"
	"github.com/resonancehq/archetype-api/internal/config"
	"github.com/resonancehq/archetype-api/internal/infra/database"
	"github.com/resonancehq/archetype-api/internal/infra/gateway"
	"github.com/resonancehq/archetype-api/internal/infra/repository"
	"github.com/resonancehq/archetype-api/internal/infra/tracing"
	"github.com/resonancehq/archetype-api/internal/interface/rest"
	"github.com/resonancehq/archetype-api/internal/scoring"
	"github.com/resonancehq/archetype-api/internal/service"
	"github.com/resonancehq/archetype-api/internal/usecase"
)

func main() {
	confPath := flag.String("c", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*confPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)
	recordRepo := repository.NewRecordRepository(rdb)

	var audit usecase.SubmissionLog
	if conf.Server.PostgresDsn != "" {
		db, err := database.NewPostgres(conf.Server.PostgresDsn)
		if err != nil {
			panic("failed to connect database")
		}
		if err := database.MigratePostgres(db); err != nil {
			panic("failed to migrate database")
		}
		audit = repository.NewSubmissionLogRepository(db)
	}

	prober := gateway.NewHTTPProber(conf.Assets.ProbeTimeout, nil)
	if conf.Server.MemcachedAddr != "" {
		prober = gateway.NewHTTPProber(conf.Assets.ProbeTimeout, database.NewMemcached(conf.Server.MemcachedAddr))
	}

	cl := client.New(conf.Enrichment.APIBase, conf.Enrichment.Token)
	enricher := gateway.NewEnrichmentGateway(cl, conf.Enrichment)
	blob := gateway.NewBlobGateway(conf.Assets.BlobEndpoint, 15*time.Second)
	assets := service.NewAssetService(recordRepo, prober, blob)

	var notifier usecase.Notifier
	if conf.CRM.WebhookURL != "" {
		notifier = gateway.NewCRMGateway(conf.CRM.WebhookURL, 5*time.Second)
	}

	engine := scoring.New(rand.New(rand.NewSource(time.Now().UnixNano())))
	quiz := usecase.NewQuizUsecase(recordRepo, engine, enricher, assets, prober, blob, audit, notifier)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	if conf.Server.EnableTrace {
		shutdown, err := tracing.Setup(context.Background(), conf.Server.TraceEndpoint)
		if err != nil {
			panic("failed to set up tracing: " + err.Error())
		}
		defer shutdown(context.Background())
		e.Use(otelecho.Middleware("archetype-api"))
	}

	rest.NewHandler(quiz, recordRepo).RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}
