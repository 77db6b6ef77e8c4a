package lrclib

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"lyricskit-go/services/providers"
)

func TestProviderRegistered(t *testing.T) {
	if !providers.Has(ProviderName) {
		t.Errorf("provider %q should be registered", ProviderName)
	}
}

func TestRecordUnmarshal(t *testing.T) {
	payload := `{
		"id": 3396226,
		"trackName": "I Want to Live",
		"artistName": "Borislav Slavov",
		"albumName": "Baldur's Gate 3",
		"duration": 233,
		"instrumental": false,
		"plainLyrics": "I want to live",
		"syncedLyrics": "[00:17.12] I want to live"
	}`

	var record Record
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if record.ID != 3396226 {
		t.Errorf("ID = %d", record.ID)
	}
	if record.TrackName != "I Want to Live" {
		t.Errorf("TrackName = %q", record.TrackName)
	}
	if record.Duration != 233 {
		t.Errorf("Duration = %v", record.Duration)
	}
	if record.SyncedLyrics == "" {
		t.Error("SyncedLyrics should be set")
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
