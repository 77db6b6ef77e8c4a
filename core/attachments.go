package core

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// Well-known attachment tags.
const (
	TagTranslation = "tr"
	TagTimeTag     = "tt"
	TagFurigana    = "fu"
	TagRomaji      = "ro"
	TagRole        = "meta:role"
	TagMinor       = "meta:minor"
	TagDots        = "dots"
	TagTags        = "tags"
)

// TranslationTag builds the attachment tag for a translation, optionally
// suffixed with a language code ("tr" or "tr:<lang>").
func TranslationTag(languageCode string) string {
	if languageCode != "" {
		return TagTranslation + ":" + languageCode
	}
	return TagTranslation
}

// IsTranslationTag reports whether a tag holds a translation.
func IsTranslationTag(tag string) bool {
	return strings.HasPrefix(tag, TagTranslation)
}

// Attachments is the keyed side-data of a single lyrics line.
type Attachments struct {
	Content map[string]Attachment
}

func NewAttachments() Attachments {
	return Attachments{Content: make(map[string]Attachment)}
}

func (a *Attachments) ensure() {
	if a.Content == nil {
		a.Content = make(map[string]Attachment)
	}
}

// Clone returns a shallow copy with an independent tag map. Attachment
// values are shared; callers replace rather than mutate them.
func (a Attachments) Clone() Attachments {
	clone := NewAttachments()
	for tag, value := range a.Content {
		clone.Content[tag] = value
	}
	return clone
}

// SetTag decodes value by its tag and stores it. Tags outside the known set
// fall back to plain text.
func (a *Attachments) SetTag(tag, value string) error {
	a.ensure()
	switch tag {
	case TagTimeTag:
		wtt, err := ParseWordTimeTag(value)
		if err != nil {
			return err
		}
		a.Content[tag] = wtt
	case TagFurigana, TagRomaji:
		ra, err := ParseRangeAttribute(value)
		if err != nil {
			return err
		}
		a.Content[tag] = ra
	case TagDots:
		na, err := ParseNumberArray(value)
		if err != nil {
			return err
		}
		a.Content[tag] = na
	case TagTags:
		n2, err := ParseNumber2DArray(value)
		if err != nil {
			return err
		}
		a.Content[tag] = n2
	default:
		a.Content[tag] = NewPlainText(value)
	}
	return nil
}

// GetTag returns the string encoding of a tag's value.
func (a Attachments) GetTag(tag string) (string, bool) {
	value, ok := a.Content[tag]
	if !ok {
		return "", false
	}
	return value.String(), true
}

// Tags returns all attachment tags in deterministic order.
func (a Attachments) Tags() []string {
	tags := make([]string, 0, len(a.Content))
	for tag := range a.Content {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// TimeTag returns the word time tag attachment, or nil.
func (a Attachments) TimeTag() *WordTimeTag {
	if wtt, ok := a.Content[TagTimeTag].(*WordTimeTag); ok {
		return wtt
	}
	return nil
}

// SetTimeTag stores or removes the word time tag attachment.
func (a *Attachments) SetTimeTag(wtt *WordTimeTag) {
	a.ensure()
	if wtt == nil {
		delete(a.Content, TagTimeTag)
		return
	}
	a.Content[TagTimeTag] = wtt
}

// Furigana returns the furigana range attribute, or nil.
func (a Attachments) Furigana() *RangeAttribute {
	if ra, ok := a.Content[TagFurigana].(*RangeAttribute); ok {
		return ra
	}
	return nil
}

// SetFurigana stores or removes the furigana range attribute.
func (a *Attachments) SetFurigana(ra *RangeAttribute) {
	a.ensure()
	if ra == nil {
		delete(a.Content, TagFurigana)
		return
	}
	a.Content[TagFurigana] = ra
}

// Translation returns the translation for a language code ("" for the
// default language).
func (a Attachments) Translation(languageCode string) (string, bool) {
	value, ok := a.Content[TranslationTag(languageCode)]
	if !ok {
		return "", false
	}
	pt, ok := value.(*PlainText)
	if !ok {
		return "", false
	}
	return pt.Text, true
}

// SetTranslation stores a translation; an empty string removes it.
func (a *Attachments) SetTranslation(text, languageCode string) {
	a.ensure()
	tag := TranslationTag(languageCode)
	if text == "" {
		delete(a.Content, tag)
		return
	}
	a.Content[tag] = NewPlainText(text)
}

// Translations returns all translations keyed by language code; the default
// language maps from "".
func (a Attachments) Translations() map[string]string {
	mapping := make(map[string]string)
	for tag, value := range a.Content {
		if !IsTranslationTag(tag) {
			continue
		}
		pt, ok := value.(*PlainText)
		if !ok {
			continue
		}
		lang := strings.TrimPrefix(tag, TagTranslation)
		lang = strings.TrimPrefix(lang, ":")
		mapping[lang] = pt.Text
	}
	return mapping
}

// Role returns the singer role of the line; 0 is the main singer.
func (a Attachments) Role() int {
	value, ok := a.Content[TagRole]
	if !ok {
		return 0
	}
	role, _ := strconv.Atoi(value.String())
	return role
}

// SetRole stores the singer role; the default role 0 clears the tag.
func (a *Attachments) SetRole(role int) {
	a.ensure()
	if role == 0 {
		delete(a.Content, TagRole)
		return
	}
	a.Content[TagRole] = NewPlainText(strconv.Itoa(role))
}

// Minor reports whether the line should render in a smaller size.
func (a Attachments) Minor() bool {
	value, ok := a.Content[TagMinor]
	return ok && value.String() == "1"
}

// SetMinor stores the minor flag; false clears the tag.
func (a *Attachments) SetMinor(minor bool) {
	a.ensure()
	if !minor {
		delete(a.Content, TagMinor)
		return
	}
	a.Content[TagMinor] = NewPlainText("1")
}

func (a Attachments) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(a.Content))
	for tag, value := range a.Content {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		out[tag] = data
	}
	return json.Marshal(out)
}

func (a *Attachments) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Content = make(map[string]Attachment, len(raw))
	for tag, value := range raw {
		attachment, err := unmarshalAttachment(value)
		if err != nil {
			return err
		}
		a.Content[tag] = attachment
	}
	return nil
}
