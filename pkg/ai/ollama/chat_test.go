package ollama

import (
	"strings"
	"testing"
)

func TestEstimateContext(t *testing.T) {
	small, err := estimateContext("Jane Smith, Carlos Alvarez")
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	if small != 0 {
		t.Fatalf("estimateContext() small prompt got = %d, want 0", small)
	}

	large, err := estimateContext(strings.Repeat("Global Research Institute ", 2000))
	if err != nil {
		t.Fatalf("estimateContext() error = %v", err)
	}
	if large <= defaultContextTokens {
		t.Fatalf("estimateContext() large prompt got = %d, want > %d", large, defaultContextTokens)
	}
}

func TestNewGraphOllamaClient_InvalidURL(t *testing.T) {
	if _, err := NewGraphOllamaClient(NewGraphOllamaClientParams{BaseURL: "://bad"}); err == nil {
		t.Fatal("NewGraphOllamaClient() expected error for invalid URL")
	}
}
