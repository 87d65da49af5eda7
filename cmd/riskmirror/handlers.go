package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/brunobiangulo/riskmirror"
	"github.com/brunobiangulo/riskmirror/profile"
)

const (
	maxBodyBytes      = 1 << 20
	defaultSimilarK   = 5
	maxSimilarK       = 50
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	markdownMediaType = "text/markdown; charset=utf-8"
)

type handler struct {
	engine    riskmirror.Engine
	validator *profile.Validator
}

func newHandler(e riskmirror.Engine, v *profile.Validator) *handler {
	return &handler{engine: e, validator: v}
}

// routes registers every endpoint on a new mux.
func (h *handler) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", h.handleAnalyze)
	mux.HandleFunc("GET /download_pdf/{id}", h.handleDownload)
	mux.HandleFunc("GET /analyses", h.handleList)
	mux.HandleFunc("GET /analyses/export.xlsx", h.handleExport)
	mux.HandleFunc("GET /analyses/{id}", h.handleGet)
	mux.HandleFunc("GET /analyses/{id}/markdown", h.handleMarkdown)
	mux.HandleFunc("GET /analyses/{id}/preview", h.handlePreview)
	mux.HandleFunc("GET /analyses/{id}/similar", h.handleSimilar)
	mux.HandleFunc("DELETE /analyses/{id}", h.handleDelete)
	mux.HandleFunc("GET /health", h.handleHealth)
	return mux
}

type analyzeResponse struct {
	Analysis     string  `json:"analysis"`
	RiskScore    float64 `json:"risk_score"`
	RiskCategory string  `json:"risk_category"`
	ID           int64   `json:"id"`
	PDFLink      string  `json:"pdf_link"`
}

// POST /analyze
// Body: {"domain": "finance"|"health", "data": {...}}
func (h *handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "reading request body failed")
		return
	}

	p, err := h.validator.Decode(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	a, err := h.engine.Analyze(r.Context(), riskmirror.AnalysisRequest{Domain: p.Domain, Data: p.Data})
	if err != nil {
		h.fail(w, "analyze", err)
		return
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Analysis:     a.Narrative,
		RiskScore:    a.RiskScore,
		RiskCategory: a.RiskCategory,
		ID:           a.ID,
		PDFLink:      fmt.Sprintf("/download_pdf/%d", a.ID),
	})
}

// GET /download_pdf/{id}
func (h *handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rep, err := h.engine.Report(r.Context(), id)
	if err != nil {
		h.fail(w, "download", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": rep.Name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(rep.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(rep.Data)
}

// GET /analyses?domain=&limit=
func (h *handler) handleList(w http.ResponseWriter, r *http.Request) {
	opts, ok := listOptions(w, r)
	if !ok {
		return
	}
	list, err := h.engine.List(r.Context(), opts...)
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	if list == nil {
		list = []riskmirror.Analysis{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"analyses": list,
		"count":    len(list),
	})
}

// GET /analyses/export.xlsx?domain=
func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	opts, ok := listOptions(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.engine.Export(r.Context(), &buf, opts...); err != nil {
		h.fail(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": "riskmirror-history.xlsx"}))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GET /analyses/{id}
func (h *handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	a, err := h.engine.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GET /analyses/{id}/markdown
func (h *handler) handleMarkdown(w http.ResponseWriter, r *http.Request) {
	h.writeRendered(w, r, "markdown", markdownMediaType, h.engine.Markdown)
}

// GET /analyses/{id}/preview
func (h *handler) handlePreview(w http.ResponseWriter, r *http.Request) {
	h.writeRendered(w, r, "preview", "text/html; charset=utf-8", h.engine.Preview)
}

// writeRendered buffers the output so a failure can still produce a JSON
// error instead of a truncated document.
func (h *handler) writeRendered(w http.ResponseWriter, r *http.Request, op, contentType string,
	render func(ctx context.Context, id int64, w io.Writer) error) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := render(r.Context(), id, &buf); err != nil {
		h.fail(w, op, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// GET /analyses/{id}/similar?k=
func (h *handler) handleSimilar(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	k := defaultSimilarK
	if s := r.URL.Query().Get("k"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxSimilarK {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("k must be between 1 and %d", maxSimilarK))
			return
		}
		k = n
	}
	matches, err := h.engine.Similar(r.Context(), id, k)
	if err != nil {
		h.fail(w, "similar", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":      id,
		"matches": matches,
	})
}

// DELETE /analyses/{id}
func (h *handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.engine.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// GET /health
func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version,
	})
}

// fail maps engine errors to status codes. Unknown errors are logged and
// reported generically.
func (h *handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, riskmirror.ErrAnalysisNotFound):
		writeError(w, http.StatusNotFound, "analysis not found")
	case errors.Is(err, riskmirror.ErrReportNotFound):
		writeError(w, http.StatusNotFound, "File not found")
	case errors.Is(err, riskmirror.ErrUnsupportedDomain),
		errors.Is(err, riskmirror.ErrInvalidProfile),
		errors.Is(err, profile.ErrInvalid):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, riskmirror.ErrEmbeddingsDisabled):
		writeError(w, http.StatusNotImplemented, "similarity search is not configured")
	default:
		slog.Error(op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, op+" failed")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid analysis id")
		return 0, false
	}
	return id, true
}

func listOptions(w http.ResponseWriter, r *http.Request) ([]riskmirror.ListOption, bool) {
	q := r.URL.Query()
	var opts []riskmirror.ListOption
	if d := q.Get("domain"); d != "" {
		opts = append(opts, riskmirror.WithDomain(d))
	}
	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return nil, false
		}
		opts = append(opts, riskmirror.WithLimit(n))
	}
	return opts, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
