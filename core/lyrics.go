package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrEmptyDocument is returned when a lyrics text yields no valid line.
var ErrEmptyDocument = errors.New("no valid line found in lyrics")

// mergeTimeTagThreshold is the position tolerance used when merging a
// translation document line-by-line.
const mergeTimeTagThreshold = 0.1

// Lyrics is a parsed lyrics document: a free-form ID tag header, timed
// lines sorted ascending by position, and provenance metadata.
type Lyrics struct {
	IDTags   map[string]string
	Lines    []LyricsLine
	Metadata Metadata
}

// NewLyrics creates an empty document for decoders to fill in.
func NewLyrics() *Lyrics {
	return &Lyrics{
		IDTags:   make(map[string]string),
		Metadata: NewMetadata(),
	}
}

type attachmentRecord struct {
	positions []float64
	tag       string
	value     string
}

// Parse builds a document from enhanced LRC syntax. A textual line with N
// time tags expands into N line instances; attachment records bind to lines
// by exact position match and are dropped silently when the position matches
// no line. Returns ErrEmptyDocument when no line is produced.
func Parse(text string) (*Lyrics, error) {
	ly := NewLyrics()
	var records []attachmentRecord

	for _, raw := range strings.Split(text, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if m := lyricsLineRegex.FindStringSubmatch(raw); m != nil {
			positions := ResolveTimeTag(m[1])
			for _, position := range positions {
				line := NewLyricsLine(m[2], position)
				if m[3] != "" {
					line.Attachments.SetTranslation(m[3], "")
				}
				ly.Lines = append(ly.Lines, line)
			}
			if m[3] != "" && len(positions) > 0 {
				ly.Metadata.AddAttachmentTag(TagTranslation)
			}
			continue
		}
		if m := lyricsLineAttachmentRegex.FindStringSubmatch(raw); m != nil {
			records = append(records, attachmentRecord{
				positions: ResolveTimeTag(m[1]),
				tag:       m[2],
				value:     m[3],
			})
			continue
		}
		if m := idTagRegex.FindStringSubmatch(raw); m != nil {
			key := strings.TrimSpace(m[1])
			value := strings.TrimSpace(m[2])
			if value != "" {
				ly.IDTags[key] = value
			}
			continue
		}
	}

	// Stable: lines sharing a position keep encounter order.
	sort.SliceStable(ly.Lines, func(i, j int) bool {
		return ly.Lines[i].Position < ly.Lines[j].Position
	})

	for _, record := range records {
		ly.Metadata.AddAttachmentTag(record.tag)
		for _, position := range record.positions {
			index, found := ly.lineIndex(position)
			if !found {
				// Known fragility: an attachment whose offset matches no
				// line exactly is dropped without notice.
				continue
			}
			if err := ly.Lines[index].Attachments.SetTag(record.tag, record.value); err != nil {
				return nil, fmt.Errorf("parse attachment [%s]: %w", record.tag, err)
			}
		}
	}

	if len(ly.Lines) == 0 {
		return nil, ErrEmptyDocument
	}
	return ly, nil
}

// lineIndex binary-searches the sorted line list for an exact position
// match and returns its index, or the insertion index when not found.
func (ly *Lyrics) lineIndex(position float64) (int, bool) {
	index := sort.Search(len(ly.Lines), func(i int) bool {
		return ly.Lines[i].Position >= position
	})
	if index < len(ly.Lines) && ly.Lines[index].Position == position {
		return index, true
	}
	return index, false
}

// sortedIDTagKeys returns the header keys in deterministic order so that
// serialization round-trips byte-exact.
func (ly *Lyrics) sortedIDTagKeys() []string {
	keys := make([]string, 0, len(ly.IDTags))
	for key := range ly.IDTags {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// String renders the document in canonical syntax, the inverse of Parse.
func (ly *Lyrics) String() string {
	components := make([]string, 0, len(ly.IDTags)+len(ly.Lines))
	for _, key := range ly.sortedIDTagKeys() {
		components = append(components, "["+key+":"+ly.IDTags[key]+"]")
	}
	for _, line := range ly.Lines {
		components = append(components, line.String())
	}
	return strings.Join(components, "\n")
}

// LegacyString renders the document in plain LRC syntax with one inlined
// translation per line.
func (ly *Lyrics) LegacyString(options LegacyStringOptions) string {
	components := make([]string, 0, len(ly.IDTags)+len(ly.Lines))
	for _, key := range ly.sortedIDTagKeys() {
		components = append(components, "["+key+":"+ly.IDTags[key]+"]")
	}
	for _, line := range ly.Lines {
		components = append(components, line.LegacyString(options))
	}
	return strings.Join(components, "\n")
}

// Offset returns the document time offset in milliseconds (0 when unset).
func (ly *Lyrics) Offset() int {
	offset, _ := strconv.Atoi(ly.IDTags[IDTagOffset])
	return offset
}

// SetOffset re-serializes the offset into the ID tag header.
func (ly *Lyrics) SetOffset(milliseconds int) {
	ly.IDTags[IDTagOffset] = strconv.Itoa(milliseconds)
}

// TimeDelay returns the document time offset in seconds.
func (ly *Lyrics) TimeDelay() float64 {
	return float64(ly.Offset()) / 1000
}

// SetTimeDelay re-serializes the offset, given in seconds.
func (ly *Lyrics) SetTimeDelay(seconds float64) {
	ly.SetOffset(int(seconds * 1000))
}

// Length returns the track length in seconds parsed from the "mm:ss"
// (or bare seconds) length ID tag.
func (ly *Lyrics) Length() (float64, bool) {
	value, ok := ly.IDTags[IDTagLength]
	if !ok {
		return 0, false
	}
	return parseBase60Time(value)
}

// SetLength re-serializes the track length into the ID tag header.
func (ly *Lyrics) SetLength(seconds float64) {
	ly.IDTags[IDTagLength] = formatBase60Time(seconds)
}

// Filtrate disables every line that fails the predicate. Lines already
// disabled are not re-enabled.
func (ly *Lyrics) Filtrate(predicate func(LyricsLine) bool) {
	for i := range ly.Lines {
		if !predicate(ly.Lines[i]) {
			ly.Lines[i].Enabled = false
		}
	}
}

// Merge takes the line contents of another document as translations,
// pairing lines whose positions differ by less than a tenth of a second.
func (ly *Lyrics) Merge(other *Lyrics) {
	i, j := 0, 0
	for i < len(ly.Lines) && j < len(other.Lines) {
		delta := ly.Lines[i].Position - other.Lines[j].Position
		switch {
		case delta < mergeTimeTagThreshold && delta > -mergeTimeTagThreshold:
			if text := other.Lines[j].Content; text != "" {
				ly.Lines[i].Attachments.SetTranslation(text, "")
			}
			i++
			j++
		case delta > 0:
			j++
		default:
			i++
		}
	}
	ly.Metadata.AddAttachmentTag(TagTranslation)
}

// ForceMerge merges translations line-for-line by index, without matching
// time tags. No-op unless both documents have the same line count.
func (ly *Lyrics) ForceMerge(other *Lyrics) {
	if len(ly.Lines) != len(other.Lines) {
		return
	}
	for i := range ly.Lines {
		if text := other.Lines[i].Content; text != "" {
			ly.Lines[i].Attachments.SetTranslation(text, "")
		}
	}
	ly.Metadata.AddAttachmentTag(TagTranslation)
}

type lyricsJSON struct {
	IDTags   map[string]string `json:"idTags"`
	Lines    []LyricsLine      `json:"lines"`
	Metadata Metadata          `json:"metadata"`
}

func (ly *Lyrics) MarshalJSON() ([]byte, error) {
	return json.Marshal(lyricsJSON{
		IDTags:   ly.IDTags,
		Lines:    ly.Lines,
		Metadata: ly.Metadata,
	})
}

func (ly *Lyrics) UnmarshalJSON(data []byte) error {
	var raw lyricsJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ly.IDTags = raw.IDTags
	if ly.IDTags == nil {
		ly.IDTags = make(map[string]string)
	}
	ly.Lines = raw.Lines
	ly.Metadata = raw.Metadata
	return nil
}
