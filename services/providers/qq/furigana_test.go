package qq

import (
	"testing"

	"lyricskit-go/core"
)

func timedLine(content string, position float64) core.LyricsLine {
	return core.NewLyricsLine(content, position)
}

func TestApplyFurigana(t *testing.T) {
	ly := core.NewLyrics()
	ly.Lines = append(ly.Lines, timedLine("私は町に行く", 1))

	ApplyFurigana(ly, "1わたし2まちい")

	furigana := ly.Lines[0].Attachments.Furigana()
	if furigana == nil {
		t.Fatal("expected a furigana attachment")
	}
	expected := []core.RangeAttributeLabel{
		{Content: "わたし", Start: 0, End: 1},
		{Content: "まちい", Start: 2, End: 5},
	}
	if len(furigana.Attachment) != len(expected) {
		t.Fatalf("expected %d labels, got %d", len(expected), len(furigana.Attachment))
	}
	for i, want := range expected {
		if furigana.Attachment[i] != want {
			t.Errorf("label %d = %+v, expected %+v", i, furigana.Attachment[i], want)
		}
	}

	if !ly.Metadata.HasAttachmentTag(core.TagFurigana) {
		t.Error("metadata should record the furigana attachment")
	}
}

func TestApplyFuriganaFullWidthDigits(t *testing.T) {
	ly := core.NewLyrics()
	ly.Lines = append(ly.Lines, timedLine("１２３年", 0))

	ApplyFurigana(ly, "1すうじ1ねん")

	furigana := ly.Lines[0].Attachments.Furigana()
	if furigana == nil {
		t.Fatal("expected a furigana attachment")
	}
	expected := []core.RangeAttributeLabel{
		{Content: "すうじ", Start: 0, End: 3},
		{Content: "ねん", Start: 3, End: 4},
	}
	for i, want := range expected {
		if furigana.Attachment[i] != want {
			t.Errorf("label %d = %+v, expected %+v", i, furigana.Attachment[i], want)
		}
	}
}

func TestApplyFuriganaAcrossLines(t *testing.T) {
	ly := core.NewLyrics()
	ly.Lines = append(ly.Lines,
		timedLine("山のうた", 0),
		timedLine("川のうた", 5),
	)

	ApplyFurigana(ly, "1やま1かわ")

	first := ly.Lines[0].Attachments.Furigana()
	if first == nil || first.Attachment[0].Content != "やま" {
		t.Errorf("first line furigana = %+v", first)
	}
	second := ly.Lines[1].Attachments.Furigana()
	if second == nil || second.Attachment[0].Content != "かわ" {
		t.Errorf("second line furigana = %+v", second)
	}
}

func TestApplyFuriganaEmptyReadingConsumesKanji(t *testing.T) {
	ly := core.NewLyrics()
	ly.Lines = append(ly.Lines, timedLine("山川", 0))

	ApplyFurigana(ly, "11かわ")

	furigana := ly.Lines[0].Attachments.Furigana()
	if furigana == nil {
		t.Fatal("expected a furigana attachment")
	}
	if len(furigana.Attachment) != 1 {
		t.Fatalf("expected 1 label, got %d", len(furigana.Attachment))
	}
	want := core.RangeAttributeLabel{Content: "かわ", Start: 1, End: 2}
	if furigana.Attachment[0] != want {
		t.Errorf("label = %+v, expected %+v", furigana.Attachment[0], want)
	}
}

func TestApplyFuriganaNoKanji(t *testing.T) {
	ly := core.NewLyrics()
	ly.Lines = append(ly.Lines, timedLine("all ascii here", 0))

	ApplyFurigana(ly, "1よみ")

	if ly.Lines[0].Attachments.Furigana() != nil {
		t.Error("line without kanji should not get furigana")
	}
	if ly.Metadata.HasAttachmentTag(core.TagFurigana) {
		t.Error("metadata should not record furigana when none was applied")
	}
}

func TestApplyFuriganaEmptyTag(t *testing.T) {
	ly := core.NewLyrics()
	ly.Lines = append(ly.Lines, timedLine("漢字", 0))

	ApplyFurigana(ly, "")

	if ly.Lines[0].Attachments.Furigana() != nil {
		t.Error("empty kana tag should be a no-op")
	}
}
