package netease

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"lyricskit-go/core"
)

var (
	klyricIDTagRegex  = regexp.MustCompile(`(?m)^\[([a-zA-Z#][^\]:]*):([^\]]*)\]$`)
	klyricLineRegex   = regexp.MustCompile(`(?m)^\[(\d+),(\d+)\]`)
	klyricInlineRegex = regexp.MustCompile(`\((\d+),\d+\)([^(\n]*)(\n)?`)
)

// parseKLyric parses the NetEase karaoke lyric format. Each line starts
// with a "[startMs,durationMs]" header followed by "(durationMs,n)fragment"
// runs. Fragment durations accumulate into word time tag offsets. A
// fragment ending at a raw newline folds into the same line as a space,
// nudged by a millisecond to keep offsets strictly increasing.
func parseKLyric(text string) (*core.Lyrics, error) {
	ly := core.NewLyrics()

	for _, m := range klyricIDTagRegex.FindAllStringSubmatch(text, -1) {
		key := strings.TrimSpace(m[1])
		value := strings.TrimSpace(m[2])
		if key != "" && value != "" {
			ly.IDTags[key] = value
		}
	}

	headers := klyricLineRegex.FindAllStringSubmatchIndex(text, -1)
	for i, h := range headers {
		startMs, _ := strconv.Atoi(text[h[2]:h[3]])
		durMs, _ := strconv.Atoi(text[h[4]:h[5]])

		end := len(text)
		if i+1 < len(headers) {
			end = headers[i+1][0]
		}
		body := text[h[1]:end]
		// The trailing line break belongs to the header line, not to an
		// embedded fold.
		body = strings.TrimSuffix(strings.TrimSuffix(body, "\n"), "\r")

		dt := 0.0
		var sb strings.Builder
		labels := []core.WordTimeTagLabel{{TimeTag: 0, Index: 0}}
		for _, im := range klyricInlineRegex.FindAllStringSubmatch(body, -1) {
			fragMs, _ := strconv.Atoi(im[1])
			step := float64(fragMs) / 1000
			frag := im[2]
			if im[3] != "" {
				step += 0.001
				frag += " "
			}
			sb.WriteString(frag)
			dt += step
			labels = append(labels, core.WordTimeTagLabel{
				TimeTag: dt,
				Index:   utf8.RuneCountInString(sb.String()),
			})
		}

		line := core.NewLyricsLine(sb.String(), float64(startMs)/1000)
		line.Attachments.SetTimeTag(&core.WordTimeTag{
			Tags:     labels,
			Duration: float64(durMs) / 1000,
		})
		ly.Lines = append(ly.Lines, line)
	}

	if len(ly.Lines) == 0 {
		return nil, core.ErrEmptyDocument
	}

	sort.SliceStable(ly.Lines, func(i, j int) bool {
		return ly.Lines[i].Position < ly.Lines[j].Position
	})

	ly.Metadata.AddAttachmentTag(core.TagTimeTag)
	return ly, nil
}
