package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Compiled patterns shared by the parser. All immutable after init.
var (
	// A single time tag: [mm:ss], [mm:ss.fff], optionally signed.
	timeTagRegex = regexp.MustCompile(`\[([+-]?)(\d+):(\d+(?:\.\d+)?)\]`)

	// A lyrics line: one or more time tags, free text not starting with "[",
	// optionally followed by an inline legacy translation in 【...】.
	lyricsLineRegex = regexp.MustCompile(`^((?:\[[+-]?\d+:\d+(?:\.\d+)?\])+)([^\[【][^【\r\n]*)?(?:【([^】]*)】)?$`)

	// A line attachment: one or more time tags, then [tag]value.
	lyricsLineAttachmentRegex = regexp.MustCompile(`^((?:\[[+-]?\d+:\d+(?:\.\d+)?\])+)\[([^\]]+)\](.*)$`)

	// An ID tag line: [key:value] that did not parse as a time tag.
	idTagRegex = regexp.MustCompile(`^\[([^\]:]+):([^\]]*)\]$`)

	// A "mm:ss" or plain seconds value, as used by the length ID tag.
	base60TimeRegex = regexp.MustCompile(`^\s*(?:(\d+):)?(\d+(?:\.\d+)?)\s*$`)

	// Word time tag labels and optional duration inside an attachment value.
	timeLineAttachmentRegex         = regexp.MustCompile(`<(\d+),(\d+)>`)
	timeLineAttachmentDurationRegex = regexp.MustCompile(`<(\d+)>`)

	// Range attribute labels inside an attachment value.
	rangeAttachmentRegex = regexp.MustCompile(`<([^,<>]+),(\d+),(\d+)>`)
)

// ResolveTimeTag parses a run of adjacent time tags into offsets in seconds.
// Returns an empty slice when no tag is present; callers treat that as
// "skip this line".
func ResolveTimeTag(str string) []float64 {
	matches := timeTagRegex.FindAllStringSubmatch(str, -1)
	tags := make([]float64, 0, len(matches))
	for _, m := range matches {
		min, _ := strconv.ParseFloat(m[2], 64)
		sec, _ := strconv.ParseFloat(m[3], 64)
		offset := min*60 + sec
		if m[1] == "-" {
			offset = -offset
		}
		tags = append(tags, offset)
	}
	return tags
}

// FormatTimeTag renders a position in seconds as "mm:ss.fff".
func FormatTimeTag(position float64) string {
	sign := ""
	if position < 0 {
		sign = "-"
		position = -position
	}
	min := int(position) / 60
	sec := position - float64(min*60)
	return fmt.Sprintf("%s%02d:%06.3f", sign, min, sec)
}

// parseBase60Time parses "mm:ss" (or bare seconds) into seconds.
func parseBase60Time(str string) (float64, bool) {
	m := base60TimeRegex.FindStringSubmatch(str)
	if m == nil {
		return 0, false
	}
	var min float64
	if m[1] != "" {
		min, _ = strconv.ParseFloat(m[1], 64)
	}
	sec, _ := strconv.ParseFloat(m[2], 64)
	return min*60 + sec, true
}

// formatBase60Time renders seconds as a length ID tag value, trimming
// trailing zeros ("254.00" -> "254", "253.50" -> "253.5").
func formatBase60Time(seconds float64) string {
	s := strconv.FormatFloat(seconds, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
