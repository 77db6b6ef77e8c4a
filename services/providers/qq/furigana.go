package qq

import (
	"regexp"
	"strconv"
	"unicode/utf8"

	"lyricskit-go/core"
)

var (
	// furiganaRunRegex splits the "kana" ID tag into (count, reading) runs.
	furiganaRunRegex = regexp.MustCompile(`(\d)(\D*)`)
	// kanjiRegex matches one Han character or one run of full-width digits,
	// the units the kana readings are counted against.
	kanjiRegex = regexp.MustCompile(`\p{Han}|[０-９]+`)
)

type furiganaRun struct {
	count   int
	reading string
}

// ApplyFurigana distributes the readings of a QQ "kana" ID tag over the
// lines of a document. Each run covers the next count kanji units of the
// current line; runs are consumed across lines in order. Runs with an empty
// reading still consume their kanji but produce no annotation.
func ApplyFurigana(ly *core.Lyrics, kana string) {
	matches := furiganaRunRegex.FindAllStringSubmatch(kana, -1)
	if len(matches) == 0 {
		return
	}
	runs := make([]furiganaRun, 0, len(matches))
	for _, m := range matches {
		count, _ := strconv.Atoi(m[1])
		runs = append(runs, furiganaRun{count: count, reading: m[2]})
	}

	applied := false
	for i := range ly.Lines {
		if len(runs) == 0 {
			break
		}

		line := &ly.Lines[i]
		kanjis := kanjiSpans(line.Content)
		var labels []core.RangeAttributeLabel

		for len(kanjis) > 0 && len(runs) > 0 {
			run := runs[0]
			runs = runs[1:]

			start, end := -1, -1
			for run.count > 0 && len(kanjis) > 0 {
				run.count--
				span := kanjis[0]
				kanjis = kanjis[1:]
				if start < 0 || span[0] < start {
					start = span[0]
				}
				if span[1] > end {
					end = span[1]
				}
			}

			if run.reading == "" || start < 0 {
				continue
			}
			labels = append(labels, core.RangeAttributeLabel{
				Content: run.reading,
				Start:   start,
				End:     end,
			})
		}

		if len(labels) > 0 {
			line.Attachments.SetFurigana(&core.RangeAttribute{Attachment: labels})
			applied = true
		}
	}

	if applied {
		ly.Metadata.AddAttachmentTag(core.TagFurigana)
	}
}

// kanjiSpans returns the [start, end) rune ranges of the annotation units
// in a line.
func kanjiSpans(content string) [][2]int {
	byteSpans := kanjiRegex.FindAllStringIndex(content, -1)
	spans := make([][2]int, 0, len(byteSpans))
	for _, s := range byteSpans {
		start := utf8.RuneCountInString(content[:s[0]])
		length := utf8.RuneCountInString(content[s[0]:s[1]])
		spans = append(spans, [2]int{start, start + length})
	}
	return spans
}
