package kugou

import (
	"context"
	"errors"
	"testing"

	"lyricskit-go/services/providers"
)

func TestProviderRegistered(t *testing.T) {
	if !providers.Has(ProviderName) {
		t.Errorf("provider %q should be registered", ProviderName)
	}
}

func TestFetchRejectsIncompleteToken(t *testing.T) {
	p := NewProvider()

	tests := []struct {
		name  string
		token providers.Token
	}{
		{"Missing both", providers.Token{Provider: ProviderName}},
		{"Missing access key", providers.Token{Provider: ProviderName, ID: "123"}},
		{"Missing id", providers.Token{Provider: ProviderName, AccessKey: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.Fetch(context.Background(), tt.token)
			if err == nil {
				t.Fatal("expected error for incomplete token")
			}

			var pe *providers.ProviderError
			if !errors.As(err, &pe) {
				t.Fatalf("expected ProviderError, got %T", err)
			}
			if pe.Provider != ProviderName {
				t.Errorf("Provider = %q, expected %q", pe.Provider, ProviderName)
			}
		})
	}
}
