package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nlp-sidecar/internal/app"
	"nlp-sidecar/internal/chunker"
	"nlp-sidecar/internal/httputil"
	"nlp-sidecar/internal/queue"
	"nlp-sidecar/internal/store"
)

type ingestTaskPayload struct {
	DocumentID string `json:"document_id"`
	Filename   string `json:"filename"`
	Content    string `json:"content"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	if deps.Store == nil || deps.Queue == nil {
		deps.Log.Error("indexer requires both a store and a queue; check STORE_PROVIDER and QUEUE_PROVIDER")
		os.Exit(1)
	}
	deps.Log.Info("indexer worker starting")

	g, ctx := errgroup.WithContext(context.Background())

	// Run queue worker
	g.Go(func() error {
		return deps.Queue.Worker(ctx, queue.TaskTypeIngest, func(ctx context.Context, task queue.Task) error {
			var payload ingestTaskPayload
			if err := json.Unmarshal(task.Payload, &payload); err != nil {
				return err
			}
			return handleIngest(ctx, deps, payload)
		})
	})

	// Run health check server
	g.Go(func() error {
		return httputil.ServeHealth(deps.Log, deps.Config.HealthPort, "indexer")
	})

	if err := g.Wait(); err != nil {
		deps.Log.Error("indexer service stopped", "err", err)
	}
}

func handleIngest(ctx context.Context, deps app.Deps, payload ingestTaskPayload) error {
	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return err
	}
	log := deps.Log.With("document_id", docID, "filename", payload.Filename)

	res := deps.Chunker.Chunk(payload.Content, chunker.Options{
		MaxTokens: deps.Config.ChunkMaxTokens,
		Overlap:   deps.Config.ChunkOverlap,
	})
	storeChunks := make([]store.Chunk, 0, len(res.Chunks))
	for _, c := range res.Chunks {
		storeChunks = append(storeChunks, store.Chunk{
			Index:      c.Index,
			Text:       c.Text,
			TokenCount: c.TokenCount,
		})
	}

	chunksWithIDs, err := deps.Store.SaveChunks(ctx, docID, storeChunks)
	if err != nil {
		return err
	}
	if err := deps.Store.UpdateDocumentStatus(ctx, docID, store.StatusReady); err != nil {
		return err
	}
	log.Info("document chunked", "chunks", len(chunksWithIDs))

	// Hand the chunked document to the downstream embedding pipeline.
	chunkIDs := make([]uuid.UUID, 0, len(chunksWithIDs))
	for _, c := range chunksWithIDs {
		chunkIDs = append(chunkIDs, c.ID)
	}
	body, err := json.Marshal(map[string]any{
		"document_id": docID.String(),
		"chunk_ids":   chunkIDs,
	})
	if err != nil {
		return err
	}
	task := queue.Task{Type: queue.TaskTypeEmbed, Payload: body, NotBefore: time.Now()}
	return queue.EnqueueWithRetry(ctx, deps.Queue, task, 3, 200*time.Millisecond)
}
