package transliterate

// Supported typing animation languages.
const (
	LanguageEnglish  = "en"
	LanguageJapanese = "ja"
	LanguageChinese  = "zh"
)

// RubyWord pairs a displayed word with its phonetic reading. The reading is
// kana for Japanese and pinyin for Chinese; English ignores it.
type RubyWord struct {
	Text    string `json:"text"`
	Reading string `json:"reading"`
}

// AnimatedWord is the typing animation of one word, one frame per entry.
// Convert marks a conversion-style animation as opposed to plain typing.
type AnimatedWord struct {
	Convert  bool     `json:"convert"`
	Sequence []string `json:"sequence"`
}

// Keystroke prefixes per kana, in full-width romaji as an input method
// would echo them. Digraphs take priority over single kana.
var kanaKeystrokes = map[string]string{
	"あ": "", "い": "", "う": "", "え": "", "お": "",
	"か": "ｋ", "き": "ｋ", "く": "ｋ", "け": "ｋ", "こ": "ｋ",
	"さ": "ｓ", "し": "ｓ", "す": "ｓ", "せ": "ｓ", "そ": "ｓ",
	"た": "ｔ", "ち": "ｔ", "つ": "ｔ", "て": "ｔ", "と": "ｔ",
	"な": "ｎ", "に": "ｎ", "ぬ": "ｎ", "ね": "ｎ", "の": "ｎ",
	"は": "ｈ", "ひ": "ｈ", "ふ": "ｆ", "へ": "ｈ", "ほ": "ｈ",
	"ま": "ｍ", "み": "ｍ", "む": "ｍ", "め": "ｍ", "も": "ｍ",
	"や": "ｙ", "ゆ": "ｙ", "よ": "ｙ",
	"ら": "ｒ", "り": "ｒ", "る": "ｒ", "れ": "ｒ", "ろ": "ｒ",
	"わ": "ｗ", "を": "ｗ", "ん": "ｎ",
	"が": "ｇ", "ぎ": "ｇ", "ぐ": "ｇ", "げ": "ｇ", "ご": "ｇ",
	"ざ": "ｚ", "じ": "ｊ", "ず": "ｚ", "ぜ": "ｚ", "ぞ": "ｚ",
	"だ": "ｄ", "ぢ": "ｄ", "づ": "ｄ", "で": "ｄ", "ど": "ｄ",
	"ば": "ｂ", "び": "ｂ", "ぶ": "ｂ", "べ": "ｂ", "ぼ": "ｂ",
	"ぱ": "ｐ", "ぴ": "ｐ", "ぷ": "ｐ", "ぺ": "ｐ", "ぽ": "ｐ",
	"ぁ": "ｘ", "ぃ": "ｘ", "ぅ": "ｘ", "ぇ": "ｘ", "ぉ": "ｘ",
	"っ": "ｘｔ",
	"ゃ": "ｘｙ", "ゅ": "ｘｙ", "ょ": "ｘｙ",
	"ゎ": "ｘｗ",
	"ゔ": "ｖ",
}

var kanaDigraphKeystrokes = map[string]string{
	"きゃ": "ｋｙ", "きゅ": "ｋｙ", "きぇ": "ｋｙ", "きょ": "ｋｙ",
	"くぁ": "ｋｗ",
	"しゃ": "ｓｙ", "しゅ": "ｓｙ", "しぇ": "ｓｙ", "しょ": "ｓｙ",
	"ちゃ": "ｔｙ", "ちゅ": "ｔｙ", "ちぇ": "ｔｙ", "ちょ": "ｔｙ",
	"てゃ": "ｔｈ", "てぃ": "ｔｈ", "てゅ": "ｔｈ", "てぇ": "ｔｈ", "てょ": "ｔｈ",
	"にゃ": "ｎｙ", "にゅ": "ｎｙ", "にぇ": "ｎｙ", "にょ": "ｎｙ",
	"ひゃ": "ｈｙ", "ひゅ": "ｈｙ", "ひぇ": "ｈｙ", "ひょ": "ｈｙ",
	"みゃ": "ｍｙ", "みゅ": "ｍｙ", "みぇ": "ｍｙ", "みょ": "ｍｙ",
	"りゃ": "ｒｙ", "りゅ": "ｒｙ", "りぇ": "ｒｙ", "りょ": "ｒｙ",
	"うぃ": "ｗ", "うぇ": "ｗ",
	"ゔぁ": "ｖ", "ゔぃ": "ｖ", "ゔぇ": "ｖ", "ゔぉ": "ｖ",
	"ぎゃ": "ｇｙ", "ぎゅ": "ｇｙ", "ぎぇ": "ｇｙ", "ぎょ": "ｇｙ",
	"じゃ": "ｊ", "じゅ": "ｊ", "じぇ": "ｊ", "じょ": "ｊ",
	"ぢゃ": "ｄｙ", "ぢゅ": "ｄｙ", "ぢぇ": "ｄｙ", "ぢょ": "ｄｙ",
	"びゃ": "ｂｙ", "びゅ": "ｂｙ", "びぇ": "ｂｙ", "びょ": "ｂｙ",
	"ぴゃ": "ｐｙ", "ぴゅ": "ｐｙ", "ぴぇ": "ｐｙ", "ぴょ": "ｐｙ",
}

// BuildAnimationSequence renders per-word typing animation frames for the
// given language. Unknown languages fall back to English behavior.
func BuildAnimationSequence(words []RubyWord, language string) []AnimatedWord {
	switch language {
	case LanguageJapanese:
		return animateJapanese(words)
	case LanguageChinese:
		return animateChinese(words)
	default:
		return animateEnglish(words)
	}
}

// animateJapanese simulates kana input: romaji keystrokes appear first, then
// convert to the kana, and the whole word finally converts to its original
// spelling.
func animateJapanese(words []RubyWord) []AnimatedWord {
	animated := make([]AnimatedWord, 0, len(words))
	for _, word := range words {
		var sequence []string
		remaining := []rune(KanaToHira(word.Reading))
		done := ""
		for len(remaining) > 0 {
			if len(remaining) >= 2 {
				digraph := string(remaining[:2])
				if keys, ok := kanaDigraphKeystrokes[digraph]; ok {
					for _, prefix := range runePrefixes(keys) {
						sequence = append(sequence, done+prefix)
					}
					sequence = append(sequence, done+digraph)
					done += digraph
					remaining = remaining[2:]
					continue
				}
				if remaining[0] == 'っ' {
					if keys, ok := kanaKeystrokes[string(remaining[1])]; ok {
						// The pause before a doubled consonant shows as the
						// next syllable's first keystroke.
						sequence = append(sequence, done+firstRune(keys))
						done += "っ"
						remaining = remaining[1:]
						continue
					}
				}
			}
			kana := string(remaining[0])
			if keys, ok := kanaKeystrokes[kana]; ok {
				for _, prefix := range runePrefixes(keys) {
					sequence = append(sequence, done+prefix)
				}
				sequence = append(sequence, done+kana)
				done += kana
				remaining = remaining[1:]
				continue
			}
			done += kana
			sequence = append(sequence, done)
			remaining = remaining[1:]
		}
		if len(sequence) == 0 || sequence[len(sequence)-1] != word.Text {
			sequence = append(sequence, word.Text)
		}
		animated = append(animated, AnimatedWord{Convert: true, Sequence: sequence})
	}
	return animated
}

// animateChinese types the pinyin reading one character per frame, hiding
// syllable-separating apostrophes, then converts to the original word.
func animateChinese(words []RubyWord) []AnimatedWord {
	animated := make([]AnimatedWord, 0, len(words))
	for _, word := range words {
		var sequence []string
		current := ""
		for _, r := range word.Reading {
			current += string(r)
			if r != '\'' {
				sequence = append(sequence, current)
			}
		}
		if len(sequence) == 0 || sequence[len(sequence)-1] != word.Text {
			sequence = append(sequence, word.Text)
		}
		animated = append(animated, AnimatedWord{
			Convert:  word.Text != word.Reading,
			Sequence: sequence,
		})
	}
	return animated
}

// animateEnglish types the whole line straight through as a single word.
func animateEnglish(words []RubyWord) []AnimatedWord {
	var line string
	for _, word := range words {
		line += word.Text
	}
	return []AnimatedWord{{Convert: false, Sequence: runePrefixes(line)}}
}

// runePrefixes lists every non-empty rune prefix of a string in order.
func runePrefixes(s string) []string {
	runes := []rune(s)
	prefixes := make([]string, 0, len(runes))
	for i := 1; i <= len(runes); i++ {
		prefixes = append(prefixes, string(runes[:i]))
	}
	return prefixes
}
