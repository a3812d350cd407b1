package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"nlp-sidecar/internal/app"
	"nlp-sidecar/internal/chunker"
	"nlp-sidecar/internal/config"
	"nlp-sidecar/internal/queue"
	"nlp-sidecar/internal/store"
)

// periodSegmenter is a deterministic segmenter so worker tests never
// depend on a downloaded BPE vocabulary.
type periodSegmenter struct{}

func (periodSegmenter) Sentences(text string) ([]string, error) {
	parts := strings.SplitAfter(text, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out, nil
}

func (periodSegmenter) CountTokens(text string) (int, error) {
	return len(strings.Fields(text)), nil
}

func newTestDeps(st store.Store, q queue.Queue) app.Deps {
	return app.Deps{
		Store: st,
		Queue: q,
		Config: config.Config{
			ChunkMaxTokens: 50,
			ChunkOverlap:   10,
		},
		Log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Chunker: chunker.New(periodSegmenter{}),
	}
}

func TestHandleIngest(t *testing.T) {
	validDocID := uuid.New()

	tests := []struct {
		name    string
		payload ingestTaskPayload
		setup   func(*store.MockStore, *queue.MockQueue)
		wantErr bool
	}{
		{
			name: "successful ingest with small text",
			payload: ingestTaskPayload{
				DocumentID: validDocID.String(),
				Filename:   "test.txt",
				Content:    "This is a short test document.",
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SaveChunks", mock.Anything, validDocID, mock.MatchedBy(func(chunks []store.Chunk) bool {
					return len(chunks) == 1
				})).Return([]store.Chunk{{ID: uuid.New(), DocumentID: validDocID}}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, validDocID, store.StatusReady).
					Return(nil).Once()

				q.On("Enqueue", mock.Anything, mock.MatchedBy(func(task queue.Task) bool {
					if task.Type != queue.TaskTypeEmbed {
						return false
					}
					var payload map[string]any
					json.Unmarshal(task.Payload, &payload)
					return payload["document_id"] == validDocID.String()
				})).Return(nil).Once()
			},
			wantErr: false,
		},
		{
			name: "long text creates multiple chunks",
			payload: ingestTaskPayload{
				DocumentID: validDocID.String(),
				Filename:   "long.txt",
				Content:    generateLongText(40, 10),
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SaveChunks", mock.Anything, validDocID, mock.MatchedBy(func(chunks []store.Chunk) bool {
					return len(chunks) > 1
				})).Return([]store.Chunk{{ID: uuid.New()}, {ID: uuid.New()}}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, validDocID, store.StatusReady).
					Return(nil).Once()

				q.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantErr: false,
		},
		{
			name: "invalid document ID returns error",
			payload: ingestTaskPayload{
				DocumentID: "invalid-uuid",
				Filename:   "test.txt",
				Content:    "Test content.",
			},
			setup:   func(s *store.MockStore, q *queue.MockQueue) {},
			wantErr: true,
		},
		{
			name: "store SaveChunks failure propagates error",
			payload: ingestTaskPayload{
				DocumentID: validDocID.String(),
				Filename:   "test.txt",
				Content:    "Test content.",
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SaveChunks", mock.Anything, validDocID, mock.Anything).
					Return(nil, errors.New("database error")).Once()
				// UpdateDocumentStatus and Enqueue should NOT be called
			},
			wantErr: true,
		},
		{
			name: "status update failure propagates error",
			payload: ingestTaskPayload{
				DocumentID: validDocID.String(),
				Filename:   "test.txt",
				Content:    "Test content.",
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SaveChunks", mock.Anything, validDocID, mock.Anything).
					Return([]store.Chunk{{ID: uuid.New()}}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, validDocID, store.StatusReady).
					Return(store.ErrDocumentNotFound).Once()
			},
			wantErr: true,
		},
		{
			name: "queue enqueue failure returns error",
			payload: ingestTaskPayload{
				DocumentID: validDocID.String(),
				Filename:   "test.txt",
				Content:    "Test content.",
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SaveChunks", mock.Anything, validDocID, mock.Anything).
					Return([]store.Chunk{{ID: uuid.New()}}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, validDocID, store.StatusReady).
					Return(nil).Once()

				// Enqueue fails (may be retried)
				q.On("Enqueue", mock.Anything, mock.Anything).
					Return(errors.New("queue error"))
			},
			wantErr: true,
		},
		{
			name: "empty content degrades to single whole-document chunk",
			payload: ingestTaskPayload{
				DocumentID: validDocID.String(),
				Filename:   "empty.txt",
				Content:    "",
			},
			setup: func(s *store.MockStore, q *queue.MockQueue) {
				s.On("SaveChunks", mock.Anything, validDocID, mock.MatchedBy(func(chunks []store.Chunk) bool {
					return len(chunks) == 1 && chunks[0].Text == ""
				})).Return([]store.Chunk{{ID: uuid.New()}}, nil).Once()
				s.On("UpdateDocumentStatus", mock.Anything, validDocID, store.StatusReady).
					Return(nil).Once()

				q.On("Enqueue", mock.Anything, mock.Anything).Return(nil).Once()
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockStore := new(store.MockStore)
			mockQueue := new(queue.MockQueue)

			if tt.setup != nil {
				tt.setup(mockStore, mockQueue)
			}

			deps := newTestDeps(mockStore, mockQueue)

			err := handleIngest(context.Background(), deps, tt.payload)

			if (err != nil) != tt.wantErr {
				t.Errorf("handleIngest() error = %v, wantErr %v", err, tt.wantErr)
			}

			mockStore.AssertExpectations(t)
			mockQueue.AssertExpectations(t)
		})
	}
}

// generateLongText builds the given number of sentences, each with
// roughly the given word count.
func generateLongText(sentences, wordsPer int) string {
	var b strings.Builder
	for i := 0; i < sentences; i++ {
		for j := 0; j < wordsPer; j++ {
			b.WriteString("word ")
		}
		b.WriteString(". ")
	}
	return b.String()
}
