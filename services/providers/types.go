package providers

// Token identifies one search result that a provider can fetch in full.
// Everything a Fetch call needs travels inside the token, so tokens can be
// cached and replayed without re-searching.
type Token struct {
	// Provider is the name of the provider that issued the token.
	Provider string `json:"provider"`

	// ID is the provider-side track identifier.
	ID string `json:"id"`

	// Title, Artist and Album describe the matched track.
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`

	// Duration is the matched track duration in seconds, 0 when unknown.
	Duration float64 `json:"duration,omitempty"`

	// ArtworkURL points at the cover art, when the provider reports one.
	ArtworkURL string `json:"artworkUrl,omitempty"`

	// RemoteURL points at the track page on the provider, when known.
	RemoteURL string `json:"remoteUrl,omitempty"`

	// AccessKey carries provider-specific data needed by Fetch, such as the
	// per-track hash some providers require alongside the ID.
	AccessKey string `json:"accessKey,omitempty"`
}

// ProviderError represents an error from a provider with additional context
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return e.Provider + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Provider + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError
func NewProviderError(provider, message string, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Message:  message,
		Err:      err,
	}
}
