package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/brunobiangulo/riskmirror"
	"github.com/brunobiangulo/riskmirror/scoring"
	"github.com/brunobiangulo/riskmirror/store"
)

// fakeEngine is an in-memory riskmirror.Engine for command and handler tests.
type fakeEngine struct {
	mu       sync.Mutex
	nextID   int64
	analyses map[int64]*riskmirror.Analysis
	reports  map[int64][]byte

	// analyzeErr, when set, decides the error for each request.
	analyzeErr func(req riskmirror.AnalysisRequest) error
	similar    []store.Match
	similarErr error
	listOpts   int
	closed     bool
}

var _ riskmirror.Engine = (*fakeEngine)(nil)

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		analyses: map[int64]*riskmirror.Analysis{},
		reports:  map[int64][]byte{},
	}
}

// add stores a ready-made analysis with a PDF and returns its ID.
func (f *fakeEngine) add(a riskmirror.Analysis) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	a.ID = f.nextID
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(a.ID) * time.Minute)
	}
	f.analyses[a.ID] = &a
	f.reports[a.ID] = []byte("%PDF-1.3 fake " + a.Name)
	return a.ID
}

func (f *fakeEngine) Analyze(_ context.Context, req riskmirror.AnalysisRequest) (*riskmirror.Analysis, error) {
	if f.analyzeErr != nil {
		if err := f.analyzeErr(req); err != nil {
			return nil, err
		}
	}
	d, ok := scoring.ParseDomain(req.Domain)
	if !ok {
		return nil, fmt.Errorf("%w: %q", riskmirror.ErrUnsupportedDomain, req.Domain)
	}
	name := req.Data["name"]
	if name == "" {
		name = "User"
	}
	id := f.add(riskmirror.Analysis{
		Domain:       string(d),
		Name:         name,
		Profile:      req.Data,
		RiskScore:    6.5,
		RiskCategory: "Moderate Risk",
		Narrative:    "**Risk Score:** 6.5/10",
		DownloadName: name + "_" + string(d) + "_risk_report.pdf",
		PageCount:    1,
	})
	return f.Get(context.Background(), id)
}

func (f *fakeEngine) Get(_ context.Context, id int64) (*riskmirror.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.analyses[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", riskmirror.ErrAnalysisNotFound, id)
	}
	cp := *a
	return &cp, nil
}

func (f *fakeEngine) List(_ context.Context, opts ...riskmirror.ListOption) ([]riskmirror.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listOpts = len(opts)
	out := make([]riskmirror.Analysis, 0, len(f.analyses))
	for _, a := range f.analyses {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeEngine) Similar(ctx context.Context, id int64, _ int) ([]store.Match, error) {
	if f.similarErr != nil {
		return nil, f.similarErr
	}
	if _, err := f.Get(ctx, id); err != nil {
		return nil, err
	}
	return f.similar, nil
}

func (f *fakeEngine) Report(ctx context.Context, id int64) (*riskmirror.Report, error) {
	a, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.reports[id]
	if !ok {
		return nil, fmt.Errorf("%w: analysis %d", riskmirror.ErrReportNotFound, id)
	}
	return &riskmirror.Report{Name: a.DownloadName, Data: data}, nil
}

func (f *fakeEngine) Markdown(ctx context.Context, id int64, w io.Writer) error {
	a, err := f.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "# %s\n\n%s\n", a.Name, a.Narrative)
	return err
}

func (f *fakeEngine) Preview(ctx context.Context, id int64, w io.Writer) error {
	a, err := f.Get(ctx, id)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "<p>%s</p>\n", a.Name)
	return err
}

func (f *fakeEngine) Export(ctx context.Context, w io.Writer, opts ...riskmirror.ListOption) error {
	list, err := f.List(ctx, opts...)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "PK fake workbook with %d rows", len(list))
	return err
}

func (f *fakeEngine) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.analyses[id]; !ok {
		return fmt.Errorf("%w: %d", riskmirror.ErrAnalysisNotFound, id)
	}
	delete(f.analyses, id)
	delete(f.reports, id)
	return nil
}

func (f *fakeEngine) Store() *store.Store { return nil }

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeEngine) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.analyses)
}
