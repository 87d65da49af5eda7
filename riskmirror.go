// Package riskmirror turns a finance or health profile into a narrative risk
// report, renders it as a PDF and keeps a searchable history of analyses.
package riskmirror

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/brunobiangulo/riskmirror/export"
	"github.com/brunobiangulo/riskmirror/llm"
	"github.com/brunobiangulo/riskmirror/report"
	"github.com/brunobiangulo/riskmirror/reportstore"
	"github.com/brunobiangulo/riskmirror/scoring"
	"github.com/brunobiangulo/riskmirror/store"
	"github.com/google/uuid"
)

// Engine is the main entry point for producing and browsing analyses.
type Engine interface {
	// Analyze scores the profile, asks the chat model for a narrative,
	// renders and stores the PDF and records the analysis.
	Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error)

	// Get returns one analysis.
	Get(ctx context.Context, id int64) (*Analysis, error)

	// List returns analyses newest first.
	List(ctx context.Context, opts ...ListOption) ([]Analysis, error)

	// Similar returns the k analyses whose narratives are closest to id's.
	Similar(ctx context.Context, id int64, k int) ([]store.Match, error)

	// Report returns the stored PDF for an analysis.
	Report(ctx context.Context, id int64) (*Report, error)

	// Markdown writes the analysis as a markdown document.
	Markdown(ctx context.Context, id int64, w io.Writer) error

	// Preview writes the narrative rendered as HTML.
	Preview(ctx context.Context, id int64, w io.Writer) error

	// Export writes the history as an XLSX workbook.
	Export(ctx context.Context, w io.Writer, opts ...ListOption) error

	// Delete removes an analysis and its PDF.
	Delete(ctx context.Context, id int64) error

	// Store returns the underlying store for diagnostic access.
	Store() *store.Store

	// Close cleanly shuts down the engine.
	Close() error
}

// AnalysisRequest is one submitted profile.
type AnalysisRequest struct {
	Domain string            `json:"domain"`
	Data   map[string]string `json:"data"`
}

// Analysis is a stored analysis record.
type Analysis = store.Analysis

// Report is a rendered PDF and the name it should be downloaded as.
type Report struct {
	Name string
	Data []byte
}

// ListOption configures List and Export.
type ListOption func(*listOptions)

type listOptions struct {
	domain string
	limit  int
}

// WithDomain restricts results to one domain.
func WithDomain(domain string) ListOption {
	return func(o *listOptions) { o.domain = domain }
}

// WithLimit caps the number of results.
func WithLimit(n int) ListOption {
	return func(o *listOptions) { o.limit = n }
}

// Option configures New.
type Option func(*engine)

// WithChatProvider replaces the chat provider built from Config.Chat.
func WithChatProvider(p llm.Provider) Option {
	return func(e *engine) { e.chatLLM = p }
}

// WithEmbeddingProvider replaces the provider built from Config.Embedding.
func WithEmbeddingProvider(p llm.Provider) Option {
	return func(e *engine) { e.embedLLM = p }
}

// WithReportStore replaces the report store built from Config.Reports.
func WithReportStore(rs reportstore.Store) Option {
	return func(e *engine) { e.reports = rs }
}

// WithLogger sets the logger; the default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *engine) { e.log = l }
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg      Config
	store    *store.Store
	chatLLM  llm.Provider
	embedLLM llm.Provider
	reports  reportstore.Store
	renderer *report.PDFRenderer
	log      *slog.Logger
}

// New creates a riskmirror engine with the given configuration.
func New(cfg Config, opts ...Option) (Engine, error) {
	if cfg.EmbeddingDim == 0 {
		cfg.EmbeddingDim = 768
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2048
	}

	e := &engine{
		cfg:      cfg,
		renderer: report.NewPDFRenderer(report.DefaultStyles()),
		log:      slog.Default(),
	}
	for _, o := range opts {
		o(e)
	}

	if e.chatLLM == nil {
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		p, err := llm.NewProvider(cfg.Chat)
		if err != nil {
			return nil, fmt.Errorf("creating chat provider: %w", err)
		}
		e.chatLLM = p
	}

	if e.embedLLM == nil && cfg.Embedding.Provider != "" {
		p, err := llm.NewProvider(cfg.Embedding)
		if err != nil {
			return nil, fmt.Errorf("creating embedding provider: %w", err)
		}
		e.embedLLM = p
	}

	if e.reports == nil {
		rs, err := reportstore.New(cfg.resolveReports())
		if err != nil {
			return nil, fmt.Errorf("opening report store: %w", err)
		}
		e.reports = rs
	}

	s, err := store.New(cfg.resolveDBPath(), cfg.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	e.store = s

	return e, nil
}

// Analyze runs the full pipeline for one profile. Nothing is persisted
// unless every step up to the database insert succeeds.
func (e *engine) Analyze(ctx context.Context, req AnalysisRequest) (*Analysis, error) {
	start := time.Now()

	domain, ok := scoring.ParseDomain(req.Domain)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDomain, req.Domain)
	}
	data := req.Data
	if data == nil {
		data = map[string]string{}
	}
	name := profileName(data)

	score, err := scoring.Score(domain, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProfile, err)
	}
	category := scoring.Category(score)

	resp, err := e.chatLLM.Chat(ctx, llm.ChatRequest{
		Model: e.cfg.Chat.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt(string(domain))},
			{Role: llm.RoleUser, Content: userPrompt(string(domain), data)},
		},
		MaxTokens:   e.cfg.MaxTokens,
		Temperature: e.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLLMRequestFailed, err)
	}

	doc := report.Assemble(report.ReportTitle(string(domain)), resp.Content)
	pdf, err := e.renderer.RenderBytes(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	info, err := report.InspectPDF(pdf)
	if err != nil {
		return nil, fmt.Errorf("%w: reading back PDF: %v", ErrRenderFailed, err)
	}

	key := uuid.NewString() + ".pdf"
	if err := e.reports.Put(ctx, key, pdf); err != nil {
		return nil, fmt.Errorf("storing report: %w", err)
	}

	// Embedding is best effort; a failure only disables similarity for
	// this analysis.
	var vector []float32
	if e.embedLLM != nil {
		vecs, err := e.embedLLM.Embed(ctx, []string{resp.Content})
		switch {
		case err != nil:
			e.log.Warn("embedding narrative failed", "error", err)
		case len(vecs) == 1:
			vector = vecs[0]
		}
	}

	a := Analysis{
		Domain:            string(domain),
		Name:              name,
		Profile:           data,
		RiskScore:         score,
		RiskCategory:      category,
		ExtractedScore:    doc.Metrics.Score,
		ExtractedCategory: doc.Metrics.Category,
		Narrative:         resp.Content,
		ReportKey:         key,
		DownloadName:      downloadName(name, string(domain)),
		PageCount:         info.Pages,
		Model:             resp.Model,
		PromptTokens:      resp.Usage.PromptTokens,
		CompletionTokens:  resp.Usage.CompletionTokens,
		TotalTokens:       resp.Usage.TotalTokens,
		CreatedAt:         time.Now().UTC(),
	}
	id, err := e.store.InsertAnalysis(ctx, a)
	if err != nil {
		if derr := e.reports.Delete(context.WithoutCancel(ctx), key); derr != nil {
			e.log.Warn("removing orphaned report failed", "report_key", key, "error", derr)
		}
		return nil, fmt.Errorf("storing analysis: %w", err)
	}
	a.ID = id

	if vector != nil {
		if err := e.store.InsertEmbedding(ctx, id, vector); err != nil {
			e.log.Warn("storing embedding failed", "id", id, "error", err)
		}
	}

	e.log.Info("analysis stored",
		"id", id,
		"domain", a.Domain,
		"risk_score", score,
		"pages", info.Pages,
		"total_tokens", a.TotalTokens,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &a, nil
}

func (e *engine) Get(ctx context.Context, id int64) (*Analysis, error) {
	a, err := e.store.GetAnalysis(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrAnalysisNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading analysis %d: %w", id, err)
	}
	return a, nil
}

func (e *engine) List(ctx context.Context, opts ...ListOption) ([]Analysis, error) {
	filter, err := buildFilter(opts)
	if err != nil {
		return nil, err
	}
	return e.store.ListAnalyses(ctx, filter)
}

func buildFilter(opts []ListOption) (store.ListFilter, error) {
	o := &listOptions{}
	for _, opt := range opts {
		opt(o)
	}
	f := store.ListFilter{Limit: o.limit}
	if strings.TrimSpace(o.domain) != "" {
		d, ok := scoring.ParseDomain(o.domain)
		if !ok {
			return f, fmt.Errorf("%w: %q", ErrUnsupportedDomain, o.domain)
		}
		f.Domain = string(d)
	}
	return f, nil
}

// Similar embeds the analysis on demand when it predates the embedding
// provider.
func (e *engine) Similar(ctx context.Context, id int64, k int) ([]store.Match, error) {
	if e.embedLLM == nil {
		return nil, ErrEmbeddingsDisabled
	}
	a, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	vec, err := e.store.Embedding(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		vecs, eerr := e.embedLLM.Embed(ctx, []string{a.Narrative})
		if eerr != nil {
			return nil, fmt.Errorf("%w: embedding narrative: %v", ErrLLMRequestFailed, eerr)
		}
		if len(vecs) != 1 {
			return nil, fmt.Errorf("%w: expected 1 embedding, got %d", ErrLLMRequestFailed, len(vecs))
		}
		vec = vecs[0]
		if err := e.store.InsertEmbedding(ctx, id, vec); err != nil {
			return nil, fmt.Errorf("storing embedding: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("loading embedding: %w", err)
	}

	return e.store.SimilarAnalyses(ctx, vec, k, id)
}

func (e *engine) Report(ctx context.Context, id int64) (*Report, error) {
	a, err := e.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	data, err := e.reports.Get(ctx, a.ReportKey)
	if errors.Is(err, reportstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: analysis %d", ErrReportNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading report: %w", err)
	}
	return &Report{Name: a.DownloadName, Data: data}, nil
}

func (e *engine) Markdown(ctx context.Context, id int64, w io.Writer) error {
	a, err := e.Get(ctx, id)
	if err != nil {
		return err
	}
	return report.WriteMarkdown(w, report.Assemble(report.ReportTitle(a.Domain), a.Narrative))
}

func (e *engine) Preview(ctx context.Context, id int64, w io.Writer) error {
	a, err := e.Get(ctx, id)
	if err != nil {
		return err
	}
	return report.RenderHTML(w, a.Narrative)
}

func (e *engine) Export(ctx context.Context, w io.Writer, opts ...ListOption) error {
	list, err := e.List(ctx, opts...)
	if err != nil {
		return err
	}
	return export.WriteXLSX(w, list)
}

// Delete removes the record first so a failed blob delete leaves at most an
// unreferenced PDF behind.
func (e *engine) Delete(ctx context.Context, id int64) error {
	a, err := e.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := e.store.DeleteAnalysis(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %d", ErrAnalysisNotFound, id)
		}
		return fmt.Errorf("deleting analysis %d: %w", id, err)
	}
	if err := e.reports.Delete(ctx, a.ReportKey); err != nil && !errors.Is(err, reportstore.ErrNotFound) {
		e.log.Warn("deleting report failed", "id", id, "report_key", a.ReportKey, "error", err)
	}
	e.log.Info("analysis deleted", "id", id)
	return nil
}

func (e *engine) Store() *store.Store {
	return e.store
}

func (e *engine) Close() error {
	if e.store != nil {
		return e.store.Close()
	}
	return nil
}
