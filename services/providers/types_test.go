package providers

import (
	"errors"
	"testing"
)

func TestProviderError_Error(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		message  string
		err      error
		expected string
	}{
		{
			name:     "Without wrapped error",
			provider: "kugou",
			message:  "song search failed",
			err:      nil,
			expected: "kugou: song search failed",
		},
		{
			name:     "With wrapped error",
			provider: "netease",
			message:  "API request failed",
			err:      errors.New("connection timeout"),
			expected: "netease: API request failed: connection timeout",
		},
		{
			name:     "Empty provider name",
			provider: "",
			message:  "some error",
			err:      nil,
			expected: ": some error",
		},
		{
			name:     "Empty message",
			provider: "lrclib",
			message:  "",
			err:      nil,
			expected: "lrclib: ",
		},
		{
			name:     "Empty message with wrapped error",
			provider: "lrclib",
			message:  "",
			err:      errors.New("underlying error"),
			expected: "lrclib: : underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pe := &ProviderError{
				Provider: tt.provider,
				Message:  tt.message,
				Err:      tt.err,
			}
			result := pe.Error()
			if result != tt.expected {
				t.Errorf("Error() = %q, expected %q", result, tt.expected)
			}
		})
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	t.Run("With wrapped error", func(t *testing.T) {
		underlying := errors.New("underlying error")
		pe := &ProviderError{
			Provider: "kugou",
			Message:  "operation failed",
			Err:      underlying,
		}

		unwrapped := pe.Unwrap()
		if unwrapped != underlying {
			t.Errorf("Unwrap() = %v, expected %v", unwrapped, underlying)
		}

		// Test that errors.Is works correctly
		if !errors.Is(pe, underlying) {
			t.Error("errors.Is should find the underlying error")
		}
	})

	t.Run("Without wrapped error", func(t *testing.T) {
		pe := &ProviderError{
			Provider: "kugou",
			Message:  "no underlying",
			Err:      nil,
		}

		unwrapped := pe.Unwrap()
		if unwrapped != nil {
			t.Errorf("Unwrap() = %v, expected nil", unwrapped)
		}
	})
}

func TestNewProviderError(t *testing.T) {
	t.Run("Creates error with all fields", func(t *testing.T) {
		underlying := errors.New("network error")
		pe := NewProviderError("netease", "request failed", underlying)

		if pe.Provider != "netease" {
			t.Errorf("Provider = %q, expected %q", pe.Provider, "netease")
		}
		if pe.Message != "request failed" {
			t.Errorf("Message = %q, expected %q", pe.Message, "request failed")
		}
		if pe.Err != underlying {
			t.Errorf("Err = %v, expected %v", pe.Err, underlying)
		}
	})

	t.Run("Creates error without wrapped error", func(t *testing.T) {
		pe := NewProviderError("lrclib", "not found", nil)

		if pe.Provider != "lrclib" {
			t.Errorf("Provider = %q, expected %q", pe.Provider, "lrclib")
		}
		if pe.Message != "not found" {
			t.Errorf("Message = %q, expected %q", pe.Message, "not found")
		}
		if pe.Err != nil {
			t.Errorf("Err = %v, expected nil", pe.Err)
		}
	})
}

func TestProviderError_ErrorsAs(t *testing.T) {
	pe := NewProviderError("kugou", "test error", nil)

	var target *ProviderError
	if !errors.As(pe, &target) {
		t.Error("errors.As should match ProviderError")
	}

	if target.Provider != "kugou" {
		t.Errorf("Provider = %q, expected %q", target.Provider, "kugou")
	}
}
