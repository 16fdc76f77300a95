// README: Entry point; loads config, wires the gateway, serves with graceful shutdown.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/TaggTeeM/taggteemflagg/internal/api"
	"github.com/TaggTeeM/taggteemflagg/internal/config"
	httptransport "github.com/TaggTeeM/taggteemflagg/internal/http"
	"github.com/TaggTeeM/taggteemflagg/internal/infra"
	"github.com/TaggTeeM/taggteemflagg/internal/logging"
	"github.com/TaggTeeM/taggteemflagg/internal/maps"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/flow"
	"github.com/TaggTeeM/taggteemflagg/internal/modules/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Without Redis the phone prefill degrades to process-lifetime memory.
	var phones session.PhoneStore
	if cfg.Redis.Addr != "" {
		phones = session.NewRedisPhoneStore(infra.NewRedis(cfg.Redis.Addr, cfg.Redis.Password))
	} else {
		logger.Warn("no redis configured; phone prefill will not survive restarts")
		phones = session.NewMemoryPhoneStore()
	}

	geocoder, err := maps.NewGeocodeService(cfg.Maps.APIKey)
	if err != nil {
		logger.Fatal("maps client", zap.Error(err))
	}
	places, err := maps.NewPlacesService(cfg.Maps.APIKey)
	if err != nil {
		logger.Fatal("maps client", zap.Error(err))
	}
	routes, err := maps.NewRouteService(cfg.Maps.APIKey)
	if err != nil {
		logger.Fatal("maps client", zap.Error(err))
	}

	client := api.NewClient(cfg.API.BaseURL)
	sessions := session.NewStore()
	locator := flow.NewReportedLocator(cfg.Flow.GeolocationMaxAge)
	flows := flow.NewManager(flow.Deps{
		Geocoder: geocoder,
		Routes:   routes,
		Locator:  locator,
		API:      client,
		Sessions: sessions,
		Logger:   logger,
	}, cfg.Flow)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		API:      client,
		Sessions: sessions,
		Phones:   phones,
		Flows:    flows,
		Places:   places,
		Locator:  locator,
		Logger:   logger,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("listening", zap.String("addr", cfg.HTTP.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
}
