package llm

import "context"

// vendor holds the defaults for one hosted or local provider. All of them
// speak the OpenAI chat-completions dialect.
type vendor struct {
	baseURL    string
	model      string
	pathPrefix string
	// nativeEmbed selects Ollama's batched /api/embed endpoint.
	nativeEmbed bool
}

var vendors = map[string]vendor{
	// AI21 Studio. Jamba models; API key from AI21_API_KEY.
	"ai21": {baseURL: "https://api.ai21.com/studio", model: "jamba-large", pathPrefix: "/v1"},
	// OpenAI. API key from OPENAI_API_KEY.
	"openai": {baseURL: "https://api.openai.com", model: "gpt-4o-mini", pathPrefix: "/v1"},
	// Groq. API key from GROQ_API_KEY.
	"groq":       {baseURL: "https://api.groq.com/openai", model: "llama-3.3-70b-versatile", pathPrefix: "/v1"},
	"openrouter": {baseURL: "https://openrouter.ai/api", pathPrefix: "/v1"},
	"xai":        {baseURL: "https://api.x.ai", pathPrefix: "/v1"},
	// Gemini's OpenAI-compatible endpoint has no /v1 prefix.
	"gemini":   {baseURL: "https://generativelanguage.googleapis.com/v1beta/openai"},
	"lmstudio": {baseURL: "http://localhost:1234", pathPrefix: "/v1"},
	"ollama":   {baseURL: "http://localhost:11434", pathPrefix: "/v1", nativeEmbed: true},
	// custom has no defaults; BaseURL must be configured.
	"custom": {pathPrefix: "/v1"},
}

// compatProvider implements Provider for any OpenAI-compatible vendor.
type compatProvider struct {
	name string
	base client
}

func (p *compatProvider) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return p.base.chat(ctx, req)
}

func (p *compatProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return p.base.embed(ctx, texts)
}
