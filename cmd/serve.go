package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recicleaqui/config"
	"recicleaqui/database"
	clientRepo "recicleaqui/database/repository/client"
	collectorRepo "recicleaqui/database/repository/collector"
	discardRepo "recicleaqui/database/repository/discard"
	"recicleaqui/handlers"
	"recicleaqui/routes"
	"recicleaqui/services/collector"
	"recicleaqui/services/discard"
	"recicleaqui/services/geo"
	"recicleaqui/services/identity"
	"recicleaqui/utils"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	var withIndexes bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, config.AppConfig, withIndexes)
		},
	}

	cmd.Flags().BoolVar(&withIndexes, "ensure-indexes", true, "create MongoDB indexes on startup")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, withIndexes bool) error {
	logger := utils.GetLogger()
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	client, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())
	db := client.Database(cfg.DatabaseName)

	if withIndexes {
		if err := ensureIndexes(ctx, db); err != nil {
			return err
		}
	}

	// The geocode cache is optional; without Redis every lookup goes to Nominatim.
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache, err = utils.NewCacheClient(ctx, cfg)
		if err != nil {
			logger.Warn("Geocode cache disabled", zap.Error(err))
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// repositories.
	discards := discardRepo.NewMongoDiscardRepo(db)
	collectors := collectorRepo.NewMongoCollectorRepo(db)
	clients := clientRepo.NewMongoClientRepo(db)

	// services.
	geocoder := geo.NewNominatimGeocoder(geo.NominatimConfig{
		BaseURL:     cfg.GeocoderURL,
		UserAgent:   cfg.GeocoderUserAgent,
		CountryCode: cfg.GeocoderCountry,
		CacheTTL:    cfg.GeocodeCacheTTL,
	}, cache, logger.Named("geocoder"))
	resolver := identity.NewResolver(clients, collectors)

	discardService := &discard.DefaultDiscardService{
		Discards:       discards,
		Offers:         discards,
		Tx:             discards,
		Collectors:     collectors,
		Clients:        clients,
		Geocoder:       geocoder,
		Logger:         logger.Named("discard"),
		PointRadiusKm:  cfg.PointRadiusKm,
		PickupRadiusKm: cfg.PickupRadiusKm,
	}
	collectorService := &collector.DefaultCollectorService{
		Store:    collectors,
		Identity: resolver,
		Geocoder: geocoder,
		Logger:   logger.Named("collector"),
	}

	health := utils.NewHealthMonitor(client, cache)
	health.Start(ctx, time.Minute)

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewDiscardHandler(discard.NewGuard(discardService, resolver), discardService),
		handlers.NewCollectorHandler(collectorService),
		health,
	)
	router, err := routes.NewRouter(cfg, handlerBundle, logger)
	if err != nil {
		return err
	}

	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logger.Sugar().Info("serve: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Sugar().Info("serve: server stopped gracefully")
	return nil
}
