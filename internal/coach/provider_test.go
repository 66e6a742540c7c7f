package coach

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(ProviderConfig{Name: "gemini"})
	assert.Error(t, err, "missing key")

	_, err = NewProvider(ProviderConfig{Name: "bard", APIKey: "k"})
	assert.Error(t, err)

	p, err := NewProvider(ProviderConfig{Name: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openaiProvider{}, p)

	p, err = NewProvider(ProviderConfig{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", p.(*geminiProvider).model)
}

func TestGeminiProvider_Complete(t *testing.T) {
	var got geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"a\":"},{"text":"1}"}]}}],"modelVersion":"gemini-test-001"}`))
	}))
	defer srv.Close()

	old := geminiBaseURL
	SetGeminiBaseURL(srv.URL)
	defer SetGeminiBaseURL(old)

	p := &geminiProvider{model: "gemini-test", apiKey: "secret", http: srv.Client()}
	resp, err := p.Complete(context.Background(), &Request{SystemPrompt: "sys", UserPrompt: "hello", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, resp.Content)
	assert.Equal(t, "gemini:gemini-test-001", resp.Model)

	require.NotNil(t, got.SystemInstruction)
	assert.Equal(t, "sys", got.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "hello", got.Contents[0].Parts[0].Text)
	assert.Equal(t, "application/json", got.GenerationConfig.ResponseMimeType)
}

func TestGeminiProvider_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	old := geminiBaseURL
	SetGeminiBaseURL(srv.URL)
	defer SetGeminiBaseURL(old)

	p := &geminiProvider{model: "m", apiKey: "k", http: srv.Client()}
	_, err := p.Complete(context.Background(), &Request{UserPrompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESOURCE_EXHAUSTED")
}

func TestOpenAIProvider_Complete(t *testing.T) {
	var got openaiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		_, _ = w.Write([]byte(`{"model":"gpt-test","choices":[{"message":{"role":"assistant","content":"hi there"}}]}`))
	}))
	defer srv.Close()

	old := openaiAPIURL
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL(old)

	p := &openaiProvider{model: "gpt-test", apiKey: "secret", http: srv.Client()}
	resp, err := p.Complete(context.Background(), &Request{SystemPrompt: "sys", UserPrompt: "hello", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Content)
	assert.Equal(t, "openai:gpt-test", resp.Model)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, "json_object", got.ResponseFormat.Type)
}

func TestOpenAIProvider_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"model":"gpt-test","choices":[]}`))
	}))
	defer srv.Close()

	old := openaiAPIURL
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL(old)

	p := &openaiProvider{model: "gpt-test", apiKey: "k", http: srv.Client()}
	_, err := p.Complete(context.Background(), &Request{UserPrompt: "x"})
	assert.Error(t, err)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripFences("  {\"a\":1}  "))
}
