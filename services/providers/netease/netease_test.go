package netease

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

func TestFetchRejectsEmptyToken(t *testing.T) {
	p := NewProvider()

	_, err := p.Fetch(context.Background(), providers.Token{Provider: ProviderName})
	if err == nil {
		t.Fatal("expected error for token without id")
	}

	var pe *providers.ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError, got %T", err)
	}
	if pe.Provider != ProviderName {
		t.Errorf("Provider = %q, expected %q", pe.Provider, ProviderName)
	}
}
