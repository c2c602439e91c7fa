package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"recicleaqui/config"
	"recicleaqui/database"
	clientRepo "recicleaqui/database/repository/client"
	collectorRepo "recicleaqui/database/repository/collector"
	discardRepo "recicleaqui/database/repository/discard"
	"recicleaqui/utils"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	repos := map[string]indexer{
		"discards":   discardRepo.NewMongoDiscardRepo(db),
		"collectors": collectorRepo.NewMongoCollectorRepo(db),
		"clients":    clientRepo.NewMongoClientRepo(db),
	}
	for name, repo := range repos {
		if err := repo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("%s indexes: %w", name, err)
		}
	}
	return nil
}

func newIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Create the MongoDB indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.AppConfig
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			client, err := database.Connect(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			if err := ensureIndexes(ctx, client.Database(cfg.DatabaseName)); err != nil {
				return err
			}
			utils.GetLogger().Info("Indexes ensured", zap.String("database", cfg.DatabaseName))
			return nil
		},
	}
}
