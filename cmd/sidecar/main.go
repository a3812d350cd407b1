package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/ledongthuc/pdf"

	"nlp-sidecar/internal/app"
	"nlp-sidecar/internal/cache"
	"nlp-sidecar/internal/chunker"
	"nlp-sidecar/internal/httputil"
	"nlp-sidecar/internal/queue"
	"nlp-sidecar/internal/store"
	"nlp-sidecar/internal/textproc"
)

type tokenizeRequest struct {
	Text   string `json:"text" validate:"required"`
	Engine string `json:"engine" validate:"omitempty,oneof=words tiktoken"`
}

type textRequest struct {
	Text string `json:"text" validate:"required"`
}

type chunkRequest struct {
	Text      string `json:"text" validate:"required"`
	MaxTokens int    `json:"max_tokens" validate:"omitempty,min=50,max=2000"`
	Overlap   *int   `json:"overlap" validate:"omitempty,min=0,max=200"`
}

type stopwordsRequest struct {
	Tokens []string `json:"tokens" validate:"required"`
}

type ingestTaskPayload struct {
	DocumentID uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
	Content    string    `json:"content"`
}

func main() {
	deps, err := app.Build()
	if err != nil {
		slog.Default().Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	r := httputil.NewRouter(deps.Log)

	r.Post("/api/tokenize", tokenizeHandler(deps))
	r.Post("/api/normalize", normalizeHandler(deps))
	r.Post("/api/spellcheck", spellcheckHandler(deps))
	r.Post("/api/chunk", chunkHandler(deps))
	r.Post("/api/stopwords", stopwordsHandler(deps))
	r.Get("/healthz", healthHandler(deps, time.Now()))

	if deps.Store != nil && deps.Queue != nil {
		r.Post("/api/documents", uploadHandler(deps))
		r.Get("/api/documents/{id}/chunks", chunksHandler(deps))
	} else {
		deps.Log.Warn("document ingestion disabled; store or queue not configured")
	}

	addr := fmt.Sprintf(":%d", deps.Config.Port)
	deps.Log.Info("sidecar listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		deps.Log.Error("server failed", "err", err)
	}
}

// elapsedMS reports elapsed wall time in milliseconds, rounded to two
// decimals, matching the response contract of every endpoint.
func elapsedMS(start time.Time) float64 {
	ms := float64(time.Since(start).Nanoseconds()) / 1e6
	return math.Round(ms*100) / 100
}

func decode(deps app.Deps, w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		httputil.Fail(deps.Log, w, "invalid payload", err, http.StatusBadRequest)
		return false
	}
	if err := httputil.Validator.Struct(req); err != nil {
		httputil.ValidationError(deps.Log, w, err)
		return false
	}
	return true
}

// checkTextLen rejects texts longer than the configured rune limit before
// any tokenization work starts.
func checkTextLen(deps app.Deps, w http.ResponseWriter, text string, limit int) bool {
	if n := utf8.RuneCountInString(text); n > limit {
		httputil.Fail(deps.Log, w, fmt.Sprintf("text too long: %d runes (max %d)", n, limit), nil, http.StatusBadRequest)
		return false
	}
	return true
}

func tokenizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenizeRequest
		if !decode(deps, w, r, &req) {
			return
		}
		if !checkTextLen(deps, w, req.Text, deps.Config.MaxTextLen) {
			return
		}
		engine := req.Engine
		if engine == "" {
			engine = textproc.EngineWords
		}

		t0 := time.Now()
		tokens, err := deps.Text.Words(req.Text, engine)
		if err != nil {
			// Graceful degradation: return the text split on whitespace.
			deps.Log.Warn("tokenize degraded to whitespace split", "err", err)
			httputil.WriteJSON(w, http.StatusOK, map[string]any{
				"tokens":     strings.Fields(req.Text),
				"segmented":  req.Text,
				"engine":     textproc.EngineFallback,
				"elapsed_ms": elapsedMS(t0),
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"tokens":     tokens,
			"segmented":  strings.Join(tokens, " "),
			"engine":     engine,
			"elapsed_ms": elapsedMS(t0),
		})
	}
}

func normalizeHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if !decode(deps, w, r, &req) {
			return
		}
		if !checkTextLen(deps, w, req.Text, deps.Config.MaxTextLen) {
			return
		}

		t0 := time.Now()
		normalized, err := deps.Text.Normalize(req.Text)
		if err != nil {
			deps.Log.Warn("normalize degraded to input", "err", err)
			normalized = req.Text
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"normalized": normalized,
			"changed":    normalized != req.Text,
			"elapsed_ms": elapsedMS(t0),
		})
	}
}

func spellcheckHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req textRequest
		if !decode(deps, w, r, &req) {
			return
		}
		if !checkTextLen(deps, w, req.Text, deps.Config.MaxTextLen) {
			return
		}

		t0 := time.Now()
		corrected, err := deps.Text.Correct(req.Text)
		if err != nil {
			deps.Log.Warn("spellcheck degraded to input", "err", err)
			corrected = req.Text
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"corrected":  corrected,
			"changed":    corrected != req.Text,
			"elapsed_ms": elapsedMS(t0),
		})
	}
}

func chunkHandler(deps app.Deps) http.HandlerFunc {
	cacheTTL := time.Duration(deps.Config.CacheTTL) * time.Second

	return func(w http.ResponseWriter, r *http.Request) {
		var req chunkRequest
		if !decode(deps, w, r, &req) {
			return
		}
		if !checkTextLen(deps, w, req.Text, deps.Config.MaxChunkTextLen) {
			return
		}

		maxTokens := req.MaxTokens
		if maxTokens == 0 {
			maxTokens = deps.Config.ChunkMaxTokens
		}
		overlap := deps.Config.ChunkOverlap
		if req.Overlap != nil {
			overlap = *req.Overlap
		}
		if overlap >= maxTokens {
			httputil.Fail(deps.Log, w, "overlap must be smaller than max_tokens", nil, http.StatusBadRequest)
			return
		}

		ctx := r.Context()
		t0 := time.Now()

		key := cache.Key("chunk", req.Text, maxTokens, overlap)
		if cached, err := deps.Cache.GetChunkResult(ctx, key); err == nil && cached != nil {
			httputil.WriteJSON(w, http.StatusOK, map[string]any{
				"chunks":     cached.Chunks,
				"count":      cached.Count,
				"elapsed_ms": elapsedMS(t0),
			})
			return
		}

		res := deps.Chunker.Chunk(req.Text, chunker.Options{MaxTokens: maxTokens, Overlap: overlap})
		texts := make([]string, len(res.Chunks))
		for i, c := range res.Chunks {
			texts[i] = c.Text
		}

		if err := deps.Cache.SetChunkResult(ctx, key, &cache.ChunkResult{Chunks: texts, Count: res.Count}, cacheTTL); err != nil {
			// Cache write failures never fail the request.
			deps.Log.Warn("failed to cache chunk result", "err", err)
		}

		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"chunks":     texts,
			"count":      res.Count,
			"elapsed_ms": elapsedMS(t0),
		})
	}
}

func stopwordsHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req stopwordsRequest
		if !decode(deps, w, r, &req) {
			return
		}

		t0 := time.Now()
		filtered, removed := deps.Text.FilterStopwords(req.Tokens)
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"filtered":   filtered,
			"removed":    removed,
			"elapsed_ms": elapsedMS(t0),
		})
	}
}

func healthHandler(deps app.Deps, start time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status":         "ok",
			"encoding":       deps.Text.Encoding(),
			"uptime_seconds": math.Round(time.Since(start).Seconds()*10) / 10,
		})
	}
}

func uploadHandler(deps app.Deps) http.HandlerFunc {
	maxFileSize := deps.Config.MaxUploadSize

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if r.ContentLength > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			httputil.Fail(deps.Log, w, "file is required", err, http.StatusBadRequest)
			return
		}
		defer file.Close()

		if header.Size > maxFileSize {
			httputil.Fail(deps.Log, w, fmt.Sprintf("file too large (max %d bytes)", maxFileSize), nil, http.StatusBadRequest)
			return
		}

		if !allowedUpload(header.Filename, header.Header.Get("Content-Type")) {
			httputil.Fail(deps.Log, w, "unsupported file type (only PDF and TXT allowed)", nil, http.StatusBadRequest)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to read file", err, http.StatusInternalServerError)
			return
		}
		text := extractText(header.Filename, content, deps.Log)

		doc, err := deps.Store.CreateDocument(ctx, header.Filename)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to persist document", err, http.StatusInternalServerError)
			return
		}

		body, err := json.Marshal(ingestTaskPayload{
			DocumentID: doc.ID,
			Filename:   header.Filename,
			Content:    text,
		})
		if err != nil {
			failDocument(deps, w, r, "marshal payload failed", err, doc.ID)
			return
		}
		task := queue.Task{Type: queue.TaskTypeIngest, Payload: body}
		if err := queue.EnqueueWithRetry(ctx, deps.Queue, task, 3, 200*time.Millisecond); err != nil {
			failDocument(deps, w, r, "failed to enqueue document; please retry", err, doc.ID)
			return
		}

		httputil.WriteJSON(w, http.StatusAccepted, map[string]any{
			"document_id": doc.ID.String(),
			"status":      doc.Status,
		})
	}
}

// failDocument marks the document failed before responding, so a stuck
// "processing" row never lingers after an enqueue error.
func failDocument(deps app.Deps, w http.ResponseWriter, r *http.Request, message string, err error, docID uuid.UUID) {
	log := deps.Log.With("document_id", docID)
	if upErr := deps.Store.UpdateDocumentStatus(r.Context(), docID, store.StatusFailed); upErr != nil {
		log.Error("failed to mark document failed", "err", upErr)
	}
	httputil.Fail(log, w, message, err, http.StatusInternalServerError)
}

func chunksHandler(deps app.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "id")
		docID, err := uuid.Parse(idStr)
		if err != nil {
			httputil.Fail(deps.Log, w, "invalid document id", err, http.StatusBadRequest)
			return
		}
		doc, err := deps.Store.GetDocument(r.Context(), docID)
		if err != nil {
			httputil.Fail(deps.Log, w, "document not found", err, http.StatusNotFound)
			return
		}
		chunks, err := deps.Store.ListChunks(r.Context(), docID)
		if err != nil {
			httputil.Fail(deps.Log, w, "failed to list chunks", err, http.StatusInternalServerError)
			return
		}

		out := make([]map[string]any, len(chunks))
		for i, c := range chunks {
			out[i] = map[string]any{
				"index":       c.Index,
				"text":        c.Text,
				"token_count": c.TokenCount,
			}
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"document_id": docID.String(),
			"status":      doc.Status,
			"chunks":      out,
			"count":       len(out),
		})
	}
}

func allowedUpload(filename, contentType string) bool {
	if contentType == "" {
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".txt":
			contentType = "text/plain"
		case ".pdf":
			contentType = "application/pdf"
		}
	}
	return contentType == "text/plain" || contentType == "application/pdf"
}

// extractText extracts text from uploaded files, with PDF support.
func extractText(filename string, content []byte, log *slog.Logger) string {
	if strings.HasSuffix(strings.ToLower(filename), ".pdf") {
		text, err := extractPDF(content)
		if err != nil {
			log.Warn("pdf extraction failed, using raw bytes", "err", err, "filename", filename)
			return string(content)
		}
		return text
	}
	// Treat other files as plain text.
	return string(content)
}

func extractPDF(content []byte) (string, error) {
	reader := bytes.NewReader(content)
	pdfReader, err := pdf.NewReader(reader, int64(len(content)))
	if err != nil {
		return "", err
	}

	var textBuilder strings.Builder
	numPages := pdfReader.NumPage()

	for pageNum := 1; pageNum <= numPages; pageNum++ {
		page := pdfReader.Page(pageNum)
		if page.V.IsNull() || page.V.Key("Contents").Kind() == pdf.Null {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Skip pages that fail to extract.
			continue
		}
		textBuilder.WriteString(text)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}
