package transliterate

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"lyricskit-go/core"
)

// Op classifies a span of aligned text.
type Op int

const (
	// OpEqual text occurs in both the reading and the reference.
	OpEqual Op = 0
	// OpReading text occurs only in the furigana-derived reading.
	OpReading Op = -1
	// OpReference text occurs only in the romaji reference.
	OpReference Op = 1
)

// Run is a contiguous span of one alignment class.
type Run struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

// AlignFurigana aligns the hiragana reading of timed lines (content with
// furigana substituted in) against a romaji reference text, line by line.
// The result holds one run list per input line; an empty reference yields
// nil. Equal runs mean the two sources agree on the reading.
func AlignFurigana(lines []core.LyricsLine, reference []string) [][]Run {
	if len(reference) == 0 {
		return nil
	}

	readings := make([]string, len(lines))
	for i, line := range lines {
		readings[i] = KanaToHira(strings.TrimRight(lineReading(line), " \t　"))
	}

	referenceHira := make([]string, len(reference))
	for i, line := range reference {
		referenceHira[i] = RomaToHira(line)
	}
	// Reference lines are concatenated without separators; their line breaks
	// carry no alignment information.
	referenceText := strings.ReplaceAll(strings.Join(referenceHira, ""), " ", "")

	dmp := diffmatchpatch.New()
	diffs := toRuns(dmp.DiffMain(strings.Join(readings, "\n"), referenceText, false))
	diffs = fixupNewlineInserts(diffs)
	grouped := regroupByLine(diffs)

	for i, line := range grouped {
		grouped[i] = coalesce(line)
	}
	return grouped
}

// lineReading substitutes each furigana annotation for the content span it
// covers. Ranges are rune offsets.
func lineReading(line core.LyricsLine) string {
	furigana := line.Attachments.Furigana()
	if furigana == nil {
		return line.Content
	}
	runes := []rune(line.Content)
	var sb strings.Builder
	cursor := 0
	for _, label := range furigana.Attachment {
		if label.Start < cursor || label.End > len(runes) {
			continue
		}
		sb.WriteString(string(runes[cursor:label.Start]))
		sb.WriteString(label.Content)
		cursor = label.End
	}
	if cursor < len(runes) {
		sb.WriteString(string(runes[cursor:]))
	}
	return sb.String()
}

func toRuns(diffs []diffmatchpatch.Diff) []Run {
	runs := make([]Run, 0, len(diffs))
	for _, d := range diffs {
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpReading
		case diffmatchpatch.DiffInsert:
			op = OpReference
		default:
			op = OpEqual
		}
		runs = append(runs, Run{Op: op, Text: d.Text})
	}
	return runs
}

// fixupNewlineInserts reorders an insert that directly follows a delete
// spanning a line break, so that the inserted text attaches to the line the
// delete started on instead of leaking into the next one.
func fixupNewlineInserts(diffs []Run) []Run {
	acc := make([]Run, 0, len(diffs))
	for _, d := range diffs {
		acc = append(acc, d)
		if d.Op != OpReference || len(acc) < 2 {
			continue
		}
		prev := acc[len(acc)-2]
		if prev.Op != OpReading || !strings.Contains(prev.Text, "\n") {
			continue
		}
		cut := strings.Index(prev.Text, "\n")
		left, right := prev.Text[:cut], prev.Text[cut+1:]
		acc = acc[:len(acc)-2]
		acc = append(acc,
			Run{Op: OpReading, Text: left},
			Run{Op: OpReference, Text: d.Text},
			Run{Op: OpReading, Text: "\n" + right},
		)
	}
	return acc
}

// regroupByLine splits the flat run list back into per-line lists. Line
// breaks only ever occur in the reading side, so reading runs drive the
// splitting; reference runs trigger the merge rules against the reading run
// they follow.
func regroupByLine(diffs []Run) [][]Run {
	lines := [][]Run{{}}
	for _, d := range diffs {
		switch d.Op {
		case OpEqual:
			last := len(lines) - 1
			lines[last] = append(lines[last], d)
		case OpReading:
			for i, part := range strings.Split(d.Text, "\n") {
				if i > 0 {
					lines = append(lines, []Run{})
				}
				if part != "" {
					last := len(lines) - 1
					lines[last] = append(lines[last], Run{Op: OpReading, Text: part})
				}
			}
		case OpReference:
			last := len(lines) - 1
			lines[last] = append(lines[last], d)
			line := lines[last]
			if len(line) > 1 && line[len(line)-2].Op == OpReading {
				before := ""
				if len(line) > 2 {
					before = line[len(line)-3].Text
				}
				merged := mergeRuns(before, line[len(line)-2].Text, line[len(line)-1].Text)
				lines[last] = append(line[:len(line)-2], merged...)
			}
		}
	}
	return lines
}

// oneCharPairs lists kana that read identically even though they are spelled
// differently, such as the topic particle は read as わ. Matching applies in
// both directions.
var oneCharPairs = [][2]string{
	{"は", "わ"},
	{"を", "お"},
	{"へ", "え"},
	{"づ", "ず"},
	{"ぁ", "あ"},
	{"ぃ", "い"},
	{"ぅ", "う"},
	{"ぇ", "え"},
	{"ぉ", "お"},
}

// vowelRows maps a vowel to the kana whose syllable ends in it, used to
// resolve the prolonged sound mark ー against a spelled-out vowel.
var vowelRows = map[string]string{
	"あ": "あかがさざただなはばぱまやゃらわ",
	"い": "いきぎしじちぢにひびぴみり",
	"う": "うくぐすずつづぬふぶぷゆむ",
	"え": "えけげせぜてでねへべぺめれ",
	"お": "おこごそぞとどのほぼぽもよょろを",
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

// mergeRuns reconciles an adjacent reading/reference run pair: kana that
// only differ in spelling are folded into an equal run, repeatedly, until
// neither the pair table nor the prolonged sound mark rule applies.
func mergeRuns(before, reading, reference string) []Run {
	var merged strings.Builder
	changed := true
	for changed {
		changed = false
		for _, pair := range oneCharPairs {
			if strings.HasPrefix(reading, pair[0]) && strings.HasPrefix(reference, pair[1]) ||
				strings.HasPrefix(reading, pair[1]) && strings.HasPrefix(reference, pair[0]) {
				head := firstRune(reading)
				merged.WriteString(head)
				reading = strings.TrimPrefix(reading, head)
				reference = strings.TrimPrefix(reference, firstRune(reference))
				changed = true
			}
		}
		if changed || !strings.HasPrefix(reading, "ー") {
			continue
		}
		for vowel, row := range vowelRows {
			if strings.HasPrefix(reference, vowel) &&
				strings.ContainsRune(row, lastRune(before+merged.String())) {
				merged.WriteString("ー")
				reading = strings.TrimPrefix(reading, "ー")
				reference = strings.TrimPrefix(reference, vowel)
				changed = true
			}
		}
	}

	var result []Run
	if merged.Len() > 0 {
		result = append(result, Run{Op: OpEqual, Text: merged.String()})
	}
	if reading != "" {
		result = append(result, Run{Op: OpReading, Text: reading})
	}
	if reference != "" {
		result = append(result, Run{Op: OpReference, Text: reference})
	}
	return result
}

// coalesce joins adjacent runs of the same class.
func coalesce(line []Run) []Run {
	var out []Run
	for _, run := range line {
		if len(out) > 0 && out[len(out)-1].Op == run.Op {
			out[len(out)-1].Text += run.Text
			continue
		}
		out = append(out, run)
	}
	return out
}
