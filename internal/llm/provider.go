package llm

import (
	"context"
	"fmt"
	"os"
)

// Provider ids accepted by NewFromProvider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderDeepSeek   = "deepseek"
	ProviderOpenRouter = "openrouter"
	ProviderFake       = "fake"
)

// NewFromProvider builds the base client for a provider id. API keys come
// from the provider's usual environment variable; baseURL overrides the
// default endpoint of OpenAI-compatible providers.
func NewFromProvider(ctx context.Context, provider, model, baseURL string) (Client, error) {
	switch provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, os.Getenv("GEMINI_API_KEY"), model)
	case ProviderOpenAI:
		if baseURL == "" {
			baseURL = "https://api.openai.com/v1"
		}
		return NewOpenAIClient("OpenAI", os.Getenv("OPENAI_API_KEY"), baseURL, model), nil
	case ProviderDeepSeek:
		if baseURL == "" {
			baseURL = "https://api.deepseek.com"
		}
		return NewOpenAIClient("DeepSeek", os.Getenv("DEEPSEEK_API_KEY"), baseURL, model), nil
	case ProviderOpenRouter:
		if baseURL == "" {
			baseURL = "https://openrouter.ai/api/v1"
		}
		return NewOpenAIClient("OpenRouter", os.Getenv("OPENROUTER_API_KEY"), baseURL, model), nil
	case ProviderFake:
		return NewFakeClient(), nil
	}
	return nil, fmt.Errorf("unknown LLM provider %q", provider)
}
