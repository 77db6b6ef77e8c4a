package transliterate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyricskit-go/core"
)

func timedLine(t *testing.T, content string, furigana string) core.LyricsLine {
	t.Helper()
	line := core.NewLyricsLine(content, 0)
	if furigana != "" {
		require.NoError(t, line.Attachments.SetTag(core.TagFurigana, furigana))
	}
	return line
}

func TestAlignFuriganaExactMatch(t *testing.T) {
	lines := []core.LyricsLine{timedLine(t, "私", "<わたし,0,1>")}
	result := AlignFurigana(lines, []string{"watashi"})

	require.Len(t, result, 1)
	assert.Equal(t, []Run{{Op: OpEqual, Text: "わたし"}}, result[0])
}

func TestAlignFuriganaEmptyReference(t *testing.T) {
	lines := []core.LyricsLine{timedLine(t, "私", "")}
	assert.Nil(t, AlignFurigana(lines, nil))
}

func TestAlignFuriganaParticleSpelling(t *testing.T) {
	// The topic particle は reads わ; either spelling must fold into an
	// equal run.
	lines := []core.LyricsLine{timedLine(t, "僕は", "<ぼく,0,1>")}
	result := AlignFurigana(lines, []string{"boku wa"})

	require.Len(t, result, 1)
	assert.Equal(t, []Run{{Op: OpEqual, Text: "ぼくは"}}, result[0])

	lines = []core.LyricsLine{timedLine(t, "輪", "<わ,0,1>")}
	result = AlignFurigana(lines, []string{"ha"})
	require.Len(t, result, 1)
	assert.Equal(t, []Run{{Op: OpEqual, Text: "わ"}}, result[0])
}

func TestAlignFuriganaProlongedMark(t *testing.T) {
	lines := []core.LyricsLine{timedLine(t, "ラーメン", "")}
	result := AlignFurigana(lines, []string{"raamen"})

	require.Len(t, result, 1)
	assert.Equal(t, []Run{{Op: OpEqual, Text: "らーめん"}}, result[0])
}

func TestAlignFuriganaMultipleLines(t *testing.T) {
	lines := []core.LyricsLine{
		timedLine(t, "あい", ""),
		timedLine(t, "うえ", ""),
	}
	result := AlignFurigana(lines, []string{"ai", "ue"})

	require.Len(t, result, 2)
	assert.Equal(t, []Run{{Op: OpEqual, Text: "あい"}}, result[0])
	assert.Equal(t, []Run{{Op: OpEqual, Text: "うえ"}}, result[1])
}

func TestAlignFuriganaDisagreement(t *testing.T) {
	lines := []core.LyricsLine{timedLine(t, "かきく", "")}
	result := AlignFurigana(lines, []string{"ka sa ku"})

	require.Len(t, result, 1)
	var reading, reference string
	for _, run := range result[0] {
		switch run.Op {
		case OpReading:
			reading += run.Text
		case OpReference:
			reference += run.Text
		}
	}
	assert.Contains(t, reading, "き")
	assert.Contains(t, reference, "さ")
}

func TestLineReadingSubstitution(t *testing.T) {
	line := timedLine(t, "会いたくて", "<あ,0,1>")
	assert.Equal(t, "あいたくて", lineReading(line))

	line = timedLine(t, "今日も空", "<きょう,0,2><そら,3,4>")
	assert.Equal(t, "きょうもそら", lineReading(line))
}

func TestMergeRuns(t *testing.T) {
	runs := mergeRuns("", "はを", "わお")
	assert.Equal(t, []Run{{Op: OpEqual, Text: "はを"}}, runs)

	runs = mergeRuns("", "はのこり", "わべつ")
	assert.Equal(t, []Run{
		{Op: OpEqual, Text: "は"},
		{Op: OpReading, Text: "のこり"},
		{Op: OpReference, Text: "べつ"},
	}, runs)

	// ー resolves only when the preceding kana agrees with the vowel row.
	runs = mergeRuns("と", "ー", "お")
	assert.Equal(t, []Run{{Op: OpEqual, Text: "ー"}}, runs)
	runs = mergeRuns("と", "ー", "あ")
	assert.Equal(t, []Run{
		{Op: OpReading, Text: "ー"},
		{Op: OpReference, Text: "あ"},
	}, runs)
}

func TestCoalesce(t *testing.T) {
	line := []Run{
		{Op: OpEqual, Text: "あ"},
		{Op: OpEqual, Text: "い"},
		{Op: OpReading, Text: "う"},
	}
	assert.Equal(t, []Run{
		{Op: OpEqual, Text: "あい"},
		{Op: OpReading, Text: "う"},
	}, coalesce(line))
}
