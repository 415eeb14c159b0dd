package cli

import (
	"context"
	"fmt"

	"github.com/argenova/mesai-ai/internal/embedding"
	"github.com/argenova/mesai-ai/internal/llm"
	"github.com/argenova/mesai-ai/internal/metrics"
	"github.com/argenova/mesai-ai/internal/prompt"
	"github.com/argenova/mesai-ai/internal/retrieval"
	"github.com/argenova/mesai-ai/internal/service"
	"github.com/argenova/mesai-ai/internal/store"
	"github.com/argenova/mesai-ai/internal/vector"
)

// buildService connects all backends and assembles the chat service.
// The caller owns closing the returned store client.
func buildService(ctx context.Context) (*service.Service, *store.Client, error) {
	db, err := store.NewClient(ctx, store.Config{
		URL:       cfg.SurrealDBURL,
		Namespace: cfg.SurrealDBNamespace,
		Database:  cfg.SurrealDBDatabase,
		Username:  cfg.SurrealDBUser,
		Password:  cfg.SurrealDBPass,
		AuthLevel: cfg.SurrealDBAuthLevel,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := db.InitSchema(ctx); err != nil {
		_ = db.Close(ctx)
		return nil, nil, fmt.Errorf("initialize schema: %w", err)
	}

	collector := metrics.NewCollector()

	primary, err := embedding.NewOllamaEmbedder(cfg.OllamaURL, cfg.EmbedModel, cfg.EmbedDimension, cfg.EmbedTimeout)
	if err != nil {
		_ = db.Close(ctx)
		return nil, nil, fmt.Errorf("init embedder: %w", err)
	}
	embedder := embedding.NewService(primary, cfg.EmbedFallback, collector, logger)

	vectors := vector.NewClient(cfg.QdrantURL, cfg.QdrantCollection, embedder.Dimension(), cfg.QdrantTimeout, logger)

	model, err := llm.NewModel(cfg)
	if err != nil {
		_ = db.Close(ctx)
		return nil, nil, fmt.Errorf("init model: %w", err)
	}

	static, err := retrieval.LoadStaticExamples()
	if err != nil {
		_ = db.Close(ctx)
		return nil, nil, fmt.Errorf("load curated examples: %w", err)
	}

	retriever := retrieval.New(static, logger,
		retrieval.NewVectorTier(embedder, vectors, collector),
		retrieval.NewKeywordTier(db, cfg.RetrievalCategory),
	)

	svc := service.New(service.Deps{
		Logs:       db,
		Vectors:    vectors,
		Embedder:   embedder,
		Model:      model,
		Retriever:  retriever,
		Summarizer: prompt.NewSummarizer(model, logger),
		Static:     static,
		Metrics:    collector,
		Category:   cfg.RetrievalCategory,
		OllamaURL:  cfg.OllamaURL,
		Logger:     logger,
	})
	return svc, db, nil
}
