package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// Analysis represents a row in the analyses table.
type Analysis struct {
	ID                int64             `json:"id"`
	Domain            string            `json:"domain"`
	Name              string            `json:"name"`
	Profile           map[string]string `json:"profile"`
	RiskScore         float64           `json:"risk_score"`
	RiskCategory      string            `json:"risk_category"`
	ExtractedScore    string            `json:"extracted_score"`
	ExtractedCategory string            `json:"extracted_category"`
	Narrative         string            `json:"narrative"`
	ReportKey         string            `json:"report_key"`
	DownloadName      string            `json:"download_name"`
	PageCount         int               `json:"page_count"`
	Model             string            `json:"model"`
	PromptTokens      int               `json:"prompt_tokens"`
	CompletionTokens  int               `json:"completion_tokens"`
	TotalTokens       int               `json:"total_tokens"`
	CreatedAt         time.Time         `json:"created_at"`
}

// ListFilter narrows ListAnalyses. Zero values mean "no filter".
type ListFilter struct {
	Domain string
	Limit  int
}

// Match is a neighbour returned by SimilarAnalyses.
type Match struct {
	Analysis Analysis `json:"analysis"`
	Distance float64  `json:"distance"`
}

// Store wraps the SQLite database for all riskmirror persistence.
type Store struct {
	db           *sql.DB
	embeddingDim int
}

// New opens (or creates) a SQLite database at the given path and
// initialises the schema including the sqlite-vec virtual table.
func New(dbPath string, embeddingDim int) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.Exec(schemaSQL(embeddingDim)); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	s := &Store{db: db, embeddingDim: embeddingDim}

	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for advanced queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// EmbeddingDim returns the configured embedding dimension.
func (s *Store) EmbeddingDim() int {
	return s.embeddingDim
}

// --- Analysis operations ---

const analysisColumns = `id, domain, name, profile, risk_score, risk_category,
	extracted_score, extracted_category, narrative, report_key, download_name,
	page_count, model, prompt_tokens, completion_tokens, total_tokens, created_at`

// InsertAnalysis stores a completed analysis and returns its ID.
// A zero CreatedAt is replaced with the current UTC time.
func (s *Store) InsertAnalysis(ctx context.Context, a Analysis) (int64, error) {
	profile, err := json.Marshal(a.Profile)
	if err != nil {
		return 0, fmt.Errorf("encoding profile: %w", err)
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (domain, name, profile, risk_score, risk_category,
			extracted_score, extracted_category, narrative, report_key, download_name,
			page_count, model, prompt_tokens, completion_tokens, total_tokens, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.Domain, a.Name, string(profile), a.RiskScore, a.RiskCategory,
		a.ExtractedScore, a.ExtractedCategory, a.Narrative, a.ReportKey, a.DownloadName,
		a.PageCount, a.Model, a.PromptTokens, a.CompletionTokens, a.TotalTokens, a.CreatedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetAnalysis returns one analysis. It returns sql.ErrNoRows when absent.
func (s *Store) GetAnalysis(ctx context.Context, id int64) (*Analysis, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+analysisColumns+" FROM analyses WHERE id = ?", id)
	a, err := scanAnalysis(row)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListAnalyses returns analyses newest first.
func (s *Store) ListAnalyses(ctx context.Context, f ListFilter) ([]Analysis, error) {
	query := "SELECT " + analysisColumns + " FROM analyses"
	var args []interface{}
	if f.Domain != "" {
		query += " WHERE domain = ?"
		args = append(args, f.Domain)
	}
	query += " ORDER BY created_at DESC, id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// DeleteAnalysis removes an analysis and its embedding. It returns
// sql.ErrNoRows when no analysis has the given ID.
func (s *Store) DeleteAnalysis(ctx context.Context, id int64) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM vec_analyses WHERE analysis_id = ?", id); err != nil {
			return fmt.Errorf("deleting embedding: %w", err)
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return sql.ErrNoRows
		}
		return nil
	})
}

// --- Embedding operations ---

// InsertEmbedding stores the narrative embedding for an analysis.
func (s *Store) InsertEmbedding(ctx context.Context, analysisID int64, embedding []float32) error {
	if len(embedding) != s.embeddingDim {
		return fmt.Errorf("embedding has %d dimensions, store expects %d", len(embedding), s.embeddingDim)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO vec_analyses (analysis_id, embedding) VALUES (?, ?)",
		analysisID, serializeFloat32(embedding))
	return err
}

// Embedding returns the stored embedding for an analysis, or
// sql.ErrNoRows if it was never embedded.
func (s *Store) Embedding(ctx context.Context, analysisID int64) ([]float32, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT embedding FROM vec_analyses WHERE analysis_id = ?", analysisID).Scan(&blob)
	if err != nil {
		return nil, err
	}
	return deserializeFloat32(blob), nil
}

// SimilarAnalyses performs a KNN search for the k analyses nearest to the
// given embedding. excludeID (if non-zero) is dropped from the results so
// an analysis is never reported as similar to itself.
func (s *Store) SimilarAnalyses(ctx context.Context, embedding []float32, k int, excludeID int64) ([]Match, error) {
	if k <= 0 {
		return nil, nil
	}
	limit := k
	if excludeID != 0 {
		limit++
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT v.analysis_id, v.distance
		FROM vec_analyses v
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(embedding), limit)
	if err != nil {
		return nil, err
	}

	type hit struct {
		id       int64
		distance float64
	}
	var hits []hit
	for rows.Next() {
		var h hit
		if err := rows.Scan(&h.id, &h.distance); err != nil {
			rows.Close()
			return nil, err
		}
		if h.id == excludeID {
			continue
		}
		hits = append(hits, h)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var matches []Match
	for _, h := range hits {
		if len(matches) == k {
			break
		}
		a, err := s.GetAnalysis(ctx, h.id)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{Analysis: *a, Distance: h.distance})
	}
	return matches, nil
}

// DBStats holds counts of key database objects.
type DBStats struct {
	Analyses   int            `json:"analyses"`
	Embeddings int            `json:"embeddings"`
	ByDomain   map[string]int `json:"by_domain"`
}

// DBStats returns row counts for the analyses and embeddings tables.
func (s *Store) DBStats(ctx context.Context) (*DBStats, error) {
	stats := &DBStats{ByDomain: map[string]int{}}
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM analyses", &stats.Analyses},
		{"SELECT COUNT(*) FROM vec_analyses", &stats.Embeddings},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", q.query, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, "SELECT domain, COUNT(*) FROM analyses GROUP BY domain")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var domain string
		var n int
		if err := rows.Scan(&domain, &n); err != nil {
			return nil, err
		}
		stats.ByDomain[domain] = n
	}
	return stats, rows.Err()
}

// --- helpers ---

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(sc scanner) (Analysis, error) {
	var a Analysis
	var profile string
	var model sql.NullString
	if err := sc.Scan(&a.ID, &a.Domain, &a.Name, &profile, &a.RiskScore, &a.RiskCategory,
		&a.ExtractedScore, &a.ExtractedCategory, &a.Narrative, &a.ReportKey, &a.DownloadName,
		&a.PageCount, &model, &a.PromptTokens, &a.CompletionTokens, &a.TotalTokens,
		&a.CreatedAt); err != nil {
		return a, err
	}
	a.Model = model.String
	if profile != "" {
		if err := json.Unmarshal([]byte(profile), &a.Profile); err != nil {
			return a, fmt.Errorf("decoding profile of analysis %d: %w", a.ID, err)
		}
	}
	return a, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// serializeFloat32 converts a float32 slice to little-endian bytes for sqlite-vec.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func deserializeFloat32(b []byte) []float32 {
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
