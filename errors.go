package riskmirror

import "errors"

var (
	// ErrAnalysisNotFound is returned when an analysis ID does not exist.
	ErrAnalysisNotFound = errors.New("riskmirror: analysis not found")

	// ErrUnsupportedDomain is returned for domains other than finance and health.
	ErrUnsupportedDomain = errors.New("riskmirror: unsupported domain")

	// ErrInvalidProfile is returned when profile data cannot be read.
	ErrInvalidProfile = errors.New("riskmirror: invalid profile")

	// ErrLLMRequestFailed is returned when the narrative request fails.
	ErrLLMRequestFailed = errors.New("riskmirror: LLM request failed")

	// ErrRenderFailed is returned when the PDF cannot be produced or read back.
	ErrRenderFailed = errors.New("riskmirror: report rendering failed")

	// ErrReportNotFound is returned when an analysis exists but its PDF does not.
	ErrReportNotFound = errors.New("riskmirror: report not found")

	// ErrInvalidConfig is returned for invalid configuration values.
	ErrInvalidConfig = errors.New("riskmirror: invalid configuration")

	// ErrEmbeddingsDisabled is returned by similarity search when no
	// embedding provider is configured.
	ErrEmbeddingsDisabled = errors.New("riskmirror: embeddings disabled")
)
