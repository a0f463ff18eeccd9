package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/deb-sahu/docu-query/internal/core/ports"
	"github.com/deb-sahu/docu-query/internal/observability/metrics"
)

type Options struct {
	RateLimitRPS          float64
	RateLimitBurst        int
	MaxConcurrentRequests int
	BackpressureWait      time.Duration
}

type Router struct {
	service   string
	ingestor  ports.DocumentIngestor
	manager   ports.DocumentManager
	extractor ports.PassageExtractor
	answerer  ports.AnswerService
	metrics   *metrics.HTTPServerMetrics
	opts      Options
}

func NewRouter(
	service string,
	ingestor ports.DocumentIngestor,
	manager ports.DocumentManager,
	extractor ports.PassageExtractor,
	answerer ports.AnswerService,
	m *metrics.HTTPServerMetrics,
	opts Options,
) *Router {
	if opts.BackpressureWait <= 0 {
		opts.BackpressureWait = 2 * time.Second
	}
	return &Router{
		service:   service,
		ingestor:  ingestor,
		manager:   manager,
		extractor: extractor,
		answerer:  answerer,
		metrics:   m,
		opts:      opts,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", rt.health)
	mux.Handle("/metrics", rt.metrics.Handler())
	mux.HandleFunc("/api/upload", rt.uploadDocument)
	mux.HandleFunc("/api/text-input", rt.addText)
	mux.HandleFunc("/api/answer", rt.answer)
	mux.HandleFunc("/api/extract", rt.extract)
	mux.HandleFunc("/api/documents", rt.documents)
	mux.HandleFunc("/api/documents/", rt.deleteDocumentByID)

	var handler http.Handler = mux
	handler = rt.metrics.Middleware(rt.service, handler)
	handler = backpressureMiddleware(handler, rt.opts.MaxConcurrentRequests, rt.opts.BackpressureWait)
	handler = rateLimitMiddleware(handler, rt.opts.RateLimitRPS, rt.opts.RateLimitBurst)
	handler = accessLogMiddleware(handler)
	handler = requestIDMiddleware(handler)
	return handler
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
		return
	}
	defer file.Close()

	meta, err := rt.ingestor.AddDocument(r.Context(), fileHeader.Filename, file)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.metrics.RecordDocumentIndexed(rt.service, string(meta.Kind))
	writeJSON(w, http.StatusCreated, meta)
}

func (rt *Router) addText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Text     string `json:"text"`
		Filename string `json:"filename"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	meta, err := rt.ingestor.AddText(r.Context(), req.Filename, req.Text)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.metrics.RecordDocumentIndexed(rt.service, string(meta.Kind))
	writeJSON(w, http.StatusCreated, meta)
}

type retrievalRequest struct {
	Question string   `json:"question"`
	TopK     int      `json:"top_k"`
	DocIDs   []string `json:"doc_ids"`
}

func decodeRetrievalRequest(w http.ResponseWriter, r *http.Request) (retrievalRequest, bool) {
	var req retrievalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return req, false
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "question is required"})
		return req, false
	}
	return req, true
}

func (rt *Router) answer(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	req, ok := decodeRetrievalRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	result, err := rt.answerer.Answer(r.Context(), req.Question, req.TopK, req.DocIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.metrics.RecordRetrieval(rt.service, "answer", len(result.Sources), time.Since(start))
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) extract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	req, ok := decodeRetrievalRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	passages, err := rt.extractor.Extract(r.Context(), req.Question, req.TopK, req.DocIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	rt.metrics.RecordRetrieval(rt.service, "extract", len(passages), time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{
		"query":    req.Question,
		"passages": passages,
	})
}

func (rt *Router) documents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		docs := rt.manager.ListDocuments(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{
			"documents": docs,
			"count":     len(docs),
		})
	case http.MethodDelete:
		count, err := rt.manager.ClearAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		rt.metrics.RecordDocumentsDeleted(rt.service, count)
		writeJSON(w, http.StatusOK, map[string]any{"deleted": count})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) deleteDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if id == "" || strings.Contains(id, "/") {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "document id is required"})
		return
	}

	if err := rt.manager.RemoveDocument(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	rt.metrics.RecordDocumentsDeleted(rt.service, 1)
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, mapErrorToHTTPStatus(err), map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
