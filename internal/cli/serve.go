package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/argenova/mesai-ai/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger.Info("mesai starting",
			"version", Version,
			"provider", cfg.LLMProvider,
			"chat_model", cfg.ChatModel,
			"embedding_model", cfg.EmbedModel,
			"qdrant_collection", cfg.QdrantCollection,
		)

		svc, db, err := buildService(ctx)
		if err != nil {
			exitWithError("%v", err)
		}
		defer func() { _ = db.Close(context.Background()) }()

		srv := server.New(":"+cfg.Port, svc, logger)
		if err := srv.Run(ctx); err != nil {
			exitWithError("server: %v", err)
		}

		logger.Info("shutdown complete")
	},
}
