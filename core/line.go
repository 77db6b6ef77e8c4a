package core

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// LyricsLine is a single timed line of a lyrics document. A textual line
// carrying N time tags expands into N instances sharing cloned content.
type LyricsLine struct {
	Content     string
	Position    float64
	Attachments Attachments
	Enabled     bool
}

// NewLyricsLine creates an enabled line with empty attachments.
func NewLyricsLine(content string, position float64) LyricsLine {
	return LyricsLine{
		Content:     content,
		Position:    position,
		Attachments: NewAttachments(),
		Enabled:     true,
	}
}

// TimeTagString renders the line position as a "mm:ss.fff" time tag.
func (l LyricsLine) TimeTagString() string {
	return FormatTimeTag(l.Position)
}

// String renders the line and its attachments in canonical syntax:
// "[tt]content" followed by one "[tt][tag]value" line per attachment.
func (l LyricsLine) String() string {
	timeTag := l.TimeTagString()
	var sb strings.Builder
	sb.WriteString("[" + timeTag + "]" + l.Content)
	for _, tag := range l.Attachments.Tags() {
		value, _ := l.Attachments.GetTag(tag)
		sb.WriteString("\n[" + timeTag + "][" + tag + "]" + value)
	}
	return sb.String()
}

// LegacyStringOptions controls the plain-LRC compatibility rendering.
type LegacyStringOptions struct {
	// Separator goes between the content and the inlined translation.
	Separator string
	// ExpandFurigana inlines furigana annotations as "base(reading)".
	ExpandFurigana bool
}

// DefaultTranslationSeparator is used by LegacyString when no separator is
// configured.
const DefaultTranslationSeparator = " / "

// LegacyString renders the line in plain LRC syntax, inlining the default
// translation (and optionally furigana) into the content.
func (l LyricsLine) LegacyString(options LegacyStringOptions) string {
	separator := options.Separator
	if separator == "" {
		separator = DefaultTranslationSeparator
	}
	content := l.Content
	if options.ExpandFurigana {
		if furigana := l.Attachments.Furigana(); furigana != nil {
			content = expandRangeAttribute(content, furigana)
		}
	}
	if translation, ok := l.Attachments.Translation(""); ok {
		content += separator + translation
	}
	return "[" + l.TimeTagString() + "]" + content
}

// expandRangeAttribute rewrites "content" so that every annotated range is
// followed by its reading in parentheses. Ranges are rune offsets.
func expandRangeAttribute(content string, attribute *RangeAttribute) string {
	runes := []rune(content)
	var sb strings.Builder
	cursor := 0
	for _, label := range attribute.Attachment {
		if label.Start < cursor || label.End > len(runes) {
			continue
		}
		sb.WriteString(string(runes[cursor:label.End]))
		sb.WriteString("(" + label.Content + ")")
		cursor = label.End
	}
	if cursor < len(runes) {
		sb.WriteString(string(runes[cursor:]))
	}
	return sb.String()
}

// ContentLength returns the line content length in runes, the unit used by
// word time tag indexes and range attribute offsets.
func (l LyricsLine) ContentLength() int {
	return utf8.RuneCountInString(l.Content)
}

type lyricsLineJSON struct {
	Content     string      `json:"content"`
	Position    float64     `json:"position"`
	Enabled     *bool       `json:"enabled,omitempty"`
	Attachments Attachments `json:"attachments"`
}

func (l LyricsLine) MarshalJSON() ([]byte, error) {
	enabled := l.Enabled
	return json.Marshal(lyricsLineJSON{
		Content:     l.Content,
		Position:    l.Position,
		Enabled:     &enabled,
		Attachments: l.Attachments,
	})
}

func (l *LyricsLine) UnmarshalJSON(data []byte) error {
	var raw lyricsLineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Content = raw.Content
	l.Position = raw.Position
	l.Enabled = raw.Enabled == nil || *raw.Enabled
	l.Attachments = raw.Attachments
	if l.Attachments.Content == nil {
		l.Attachments = NewAttachments()
	}
	return nil
}
