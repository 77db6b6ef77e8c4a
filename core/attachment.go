package core

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// JSON type discriminators for attachment values. These are part of the
// persisted document format and must stay stable.
const (
	attachmentTypePlainText     = "plain_text"
	attachmentTypeTimeTag       = "time_tag"
	attachmentTypeRange         = "range"
	attachmentTypeNumberArray   = "number_array"
	attachmentTypeNumber2DArray = "number_2d_array"
)

// Attachment is a typed side-data value attached to a lyrics line under an
// attachment tag. Implementations are a closed set; serialization boundaries
// switch exhaustively over them.
type Attachment interface {
	fmt.Stringer
	json.Marshaler
}

// PlainText is a free-form text attachment. Translations are plain text
// under the "tr" (or "tr:<lang>") tag.
type PlainText struct {
	Text string
}

func NewPlainText(text string) *PlainText {
	return &PlainText{Text: text}
}

func (p *PlainText) String() string {
	return p.Text
}

func (p *PlainText) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}{attachmentTypePlainText, p.Text})
}

// WordTimeTagLabel marks intra-line timing: the time offset in seconds and
// the rune index into the line content it applies to.
type WordTimeTagLabel struct {
	TimeTag float64 `json:"timeTag"`
	Index   int     `json:"index"`
}

// ParseWordTimeTagLabel parses a "msec,index" pair.
func ParseWordTimeTagLabel(description string) (WordTimeTagLabel, error) {
	parts := strings.Split(description, ",")
	if len(parts) != 2 {
		return WordTimeTagLabel{}, fmt.Errorf("invalid word time tag %q", description)
	}
	msec, err := strconv.Atoi(parts[0])
	if err != nil {
		return WordTimeTagLabel{}, fmt.Errorf("invalid word time tag %q: %w", description, err)
	}
	index, err := strconv.Atoi(parts[1])
	if err != nil {
		return WordTimeTagLabel{}, fmt.Errorf("invalid word time tag %q: %w", description, err)
	}
	return WordTimeTagLabel{TimeTag: float64(msec) / 1000, Index: index}, nil
}

// TimeTagMSec returns the offset in whole milliseconds.
func (l WordTimeTagLabel) TimeTagMSec() int {
	return int(math.Round(l.TimeTag * 1000))
}

func (l WordTimeTagLabel) String() string {
	return fmt.Sprintf("<%d,%d>", l.TimeTagMSec(), l.Index)
}

// WordTimeTag is an ordered list of word time tag labels with an optional
// line duration in seconds. Indexes are strictly increasing.
type WordTimeTag struct {
	Tags     []WordTimeTagLabel
	Duration float64
}

// ParseWordTimeTag parses the "<msec,index>...<duration>" encoding.
func ParseWordTimeTag(description string) (*WordTimeTag, error) {
	matches := timeLineAttachmentRegex.FindAllStringSubmatch(description, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("word time tag attachment has no labels: %q", description)
	}
	tags := make([]WordTimeTagLabel, 0, len(matches))
	for _, m := range matches {
		label, err := ParseWordTimeTagLabel(m[1] + "," + m[2])
		if err != nil {
			return nil, err
		}
		tags = append(tags, label)
	}
	wtt := &WordTimeTag{Tags: tags}
	if m := timeLineAttachmentDurationRegex.FindStringSubmatch(description); m != nil {
		msec, _ := strconv.Atoi(m[1])
		wtt.Duration = float64(msec) / 1000
	}
	return wtt, nil
}

// DurationMSec returns the duration in whole milliseconds.
func (w *WordTimeTag) DurationMSec() int {
	return int(math.Round(w.Duration * 1000))
}

func (w *WordTimeTag) String() string {
	var sb strings.Builder
	for _, tag := range w.Tags {
		sb.WriteString(tag.String())
	}
	if w.Duration > 0 {
		fmt.Fprintf(&sb, "<%d>", w.DurationMSec())
	}
	return sb.String()
}

func (w *WordTimeTag) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type     string             `json:"type"`
		Tags     []WordTimeTagLabel `json:"tags"`
		Duration float64            `json:"duration,omitempty"`
	}{attachmentTypeTimeTag, w.Tags, w.Duration})
}

// RangeAttributeLabel annotates a half-open rune range [Start, End) of the
// line content with a string, e.g. a furigana reading over a kanji span.
type RangeAttributeLabel struct {
	Content string
	Start   int
	End     int
}

// ParseRangeAttributeLabel parses a "content,start,end" triple.
func ParseRangeAttributeLabel(description string) (RangeAttributeLabel, error) {
	parts := strings.Split(description, ",")
	if len(parts) != 3 {
		return RangeAttributeLabel{}, fmt.Errorf("range attribute needs 3 components: %q", description)
	}
	start, err := strconv.Atoi(parts[1])
	if err != nil {
		return RangeAttributeLabel{}, fmt.Errorf("invalid range attribute %q: %w", description, err)
	}
	end, err := strconv.Atoi(parts[2])
	if err != nil {
		return RangeAttributeLabel{}, fmt.Errorf("invalid range attribute %q: %w", description, err)
	}
	if start >= end {
		return RangeAttributeLabel{}, fmt.Errorf("range attribute has an invalid range: %q", description)
	}
	return RangeAttributeLabel{Content: parts[0], Start: start, End: end}, nil
}

func (l RangeAttributeLabel) String() string {
	return fmt.Sprintf("<%s,%d,%d>", l.Content, l.Start, l.End)
}

func (l RangeAttributeLabel) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Content string `json:"content"`
		Range   [2]int `json:"range"`
	}{l.Content, [2]int{l.Start, l.End}})
}

func (l *RangeAttributeLabel) UnmarshalJSON(data []byte) error {
	var raw struct {
		Content string `json:"content"`
		Range   [2]int `json:"range"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	l.Content = raw.Content
	l.Start = raw.Range[0]
	l.End = raw.Range[1]
	return nil
}

// RangeAttribute is an ordered, non-overlapping list of range labels, used
// for furigana and romaji annotations.
type RangeAttribute struct {
	Attachment []RangeAttributeLabel
}

// ParseRangeAttribute parses the "<content,start,end>..." encoding.
func ParseRangeAttribute(description string) (*RangeAttribute, error) {
	matches := rangeAttachmentRegex.FindAllStringSubmatch(description, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("range attribute has no labels: %q", description)
	}
	labels := make([]RangeAttributeLabel, 0, len(matches))
	for _, m := range matches {
		label, err := ParseRangeAttributeLabel(m[1] + "," + m[2] + "," + m[3])
		if err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return &RangeAttribute{Attachment: labels}, nil
}

func (r *RangeAttribute) String() string {
	var sb strings.Builder
	for _, label := range r.Attachment {
		sb.WriteString(label.String())
	}
	return sb.String()
}

func (r *RangeAttribute) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type       string                `json:"type"`
		Attachment []RangeAttributeLabel `json:"attachment"`
	}{attachmentTypeRange, r.Attachment})
}

// NumberArray is a flat list of integers, e.g. the "dots" tagging track.
type NumberArray struct {
	Values []int
}

// ParseNumberArray parses a comma-separated integer list.
func ParseNumberArray(description string) (*NumberArray, error) {
	parts := strings.Split(description, ",")
	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid number array %q: %w", description, err)
		}
		values = append(values, v)
	}
	return &NumberArray{Values: values}, nil
}

func (n *NumberArray) String() string {
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func (n *NumberArray) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Values []int  `json:"values"`
	}{attachmentTypeNumberArray, n.Values})
}

// Number2DArray is a list of second-valued groups, encoded as
// millisecond integers joined by "/" within a group and "," across groups.
type Number2DArray struct {
	Values [][]float64
}

// ParseNumber2DArray parses the "ms/ms,ms,..." encoding into seconds.
func ParseNumber2DArray(description string) (*Number2DArray, error) {
	groups := strings.Split(description, ",")
	values := make([][]float64, 0, len(groups))
	for _, group := range groups {
		if group == "" {
			values = append(values, []float64{})
			continue
		}
		parts := strings.Split(group, "/")
		row := make([]float64, 0, len(parts))
		for _, part := range parts {
			v, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("invalid number 2D array %q: %w", description, err)
			}
			row = append(row, float64(v)/1000)
		}
		values = append(values, row)
	}
	return &Number2DArray{Values: values}, nil
}

func (n *Number2DArray) String() string {
	groups := make([]string, len(n.Values))
	for i, row := range n.Values {
		parts := make([]string, len(row))
		for j, v := range row {
			parts[j] = strconv.Itoa(int(math.Round(v * 1000)))
		}
		groups[i] = strings.Join(parts, "/")
	}
	return strings.Join(groups, ",")
}

func (n *Number2DArray) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string      `json:"type"`
		Values [][]float64 `json:"values"`
	}{attachmentTypeNumber2DArray, n.Values})
}

// unmarshalAttachment decodes a single attachment value by its type
// discriminator.
func unmarshalAttachment(data []byte) (Attachment, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}
	switch head.Type {
	case attachmentTypePlainText:
		var raw struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &PlainText{Text: raw.Text}, nil
	case attachmentTypeTimeTag:
		var raw struct {
			Tags     []WordTimeTagLabel `json:"tags"`
			Duration float64            `json:"duration"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &WordTimeTag{Tags: raw.Tags, Duration: raw.Duration}, nil
	case attachmentTypeRange:
		var raw struct {
			Attachment []RangeAttributeLabel `json:"attachment"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &RangeAttribute{Attachment: raw.Attachment}, nil
	case attachmentTypeNumberArray:
		var raw struct {
			Values []int `json:"values"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &NumberArray{Values: raw.Values}, nil
	case attachmentTypeNumber2DArray:
		var raw struct {
			Values [][]float64 `json:"values"`
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
		return &Number2DArray{Values: raw.Values}, nil
	default:
		return nil, fmt.Errorf("unknown attachment type %q", head.Type)
	}
}
