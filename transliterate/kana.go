package transliterate

import "strings"

// KanaToHira folds katakana into hiragana. Characters outside the katakana
// block pass through unchanged.
func KanaToHira(str string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x30a1 && r <= 0x30f6 {
			return r - 0x60
		}
		return r
	}, str)
}

// romaKanaTable maps romaji sequences to hiragana. It is expanded into a
// prefix trie at init; no sequence is a proper prefix of another.
var romaKanaTable = map[string]string{
	"-": "ー",
	"a": "あ", "i": "い", "u": "う", "e": "え", "o": "お",

	"ka": "か", "ki": "き", "ku": "く", "ke": "け", "ko": "こ",
	"kya": "きゃ", "kyi": "きぃ", "kyu": "きゅ", "kye": "きぇ", "kyo": "きょ",
	"kwa": "くぁ", "kwi": "くぃ", "kwu": "くぅ", "kwe": "くぇ", "kwo": "くぉ",

	"sa": "さ", "si": "し", "su": "す", "se": "せ", "so": "そ",
	"sha": "しゃ", "shi": "し", "shu": "しゅ", "she": "しぇ", "sho": "しょ",
	"sya": "しゃ", "syi": "しぃ", "syu": "しゅ", "sye": "しぇ", "syo": "しょ",

	"ta": "た", "ti": "ち", "tu": "つ", "te": "て", "to": "と",
	"tha": "てゃ", "thi": "てぃ", "thu": "てゅ", "the": "てぇ", "tho": "てょ",
	"tya": "ちゃ", "tyi": "ちぃ", "tyu": "ちゅ", "tye": "ちぇ", "tyo": "ちょ",
	"tsa": "つぁ", "tsi": "つぃ", "tsu": "つ", "tse": "つぇ", "tso": "つぉ",
	"twa": "とぁ", "twi": "とぃ", "twu": "とぅ", "twe": "とぇ", "two": "とぉ",

	"ca": "か", "ci": "し", "cu": "く", "ce": "せ", "co": "こ",
	"cha": "ちゃ", "chi": "ち", "chu": "ちゅ", "che": "ちぇ", "cho": "ちょ",
	"cya": "ちゃ", "cyi": "ちぃ", "cyu": "ちゅ", "cye": "ちぇ", "cyo": "ちょ",

	"qa": "くぁ", "qi": "くぃ", "qu": "く", "qe": "くぇ", "qo": "くぉ",

	"na": "な", "ni": "に", "nu": "ぬ", "ne": "ね", "no": "の", "nn": "ん",
	"nya": "にゃ", "nyi": "にぃ", "nyu": "にゅ", "nye": "にぇ", "nyo": "にょ",

	"ha": "は", "hi": "ひ", "hu": "ふ", "he": "へ", "ho": "ほ",
	"hya": "ひゃ", "hyi": "ひぃ", "hyu": "ひゅ", "hye": "ひぇ", "hyo": "ひょ",
	"hwa": "ふぁ", "hwi": "ふぃ", "hwe": "ふぇ", "hwo": "ふぉ",

	"fa": "ふぁ", "fi": "ふぃ", "fu": "ふ", "fe": "ふぇ", "fo": "ふぉ",
	"fya": "ふゃ", "fyu": "ふゅ", "fyo": "ふょ",

	"ma": "ま", "mi": "み", "mu": "む", "me": "め", "mo": "も",
	"mya": "みゃ", "myi": "みぃ", "myu": "みゅ", "mye": "みぇ", "myo": "みょ",

	"ya": "や", "yu": "ゆ", "ye": "いぇ", "yo": "よ",

	"ra": "ら", "ri": "り", "ru": "る", "re": "れ", "ro": "ろ",
	"rya": "りゃ", "ryi": "りぃ", "ryu": "りゅ", "rye": "りぇ", "ryo": "りょ",

	"wa": "わ", "wi": "うぃ", "wu": "う", "we": "うぇ", "wo": "を",
	"wha": "うぁ", "whi": "うぃ", "whu": "う", "whe": "うぇ", "who": "うぉ",
	"wyi": "ゐ", "wye": "ゑ",

	"ga": "が", "gi": "ぎ", "gu": "ぐ", "ge": "げ", "go": "ご",
	"gya": "ぎゃ", "gyi": "ぎぃ", "gyu": "ぎゅ", "gye": "ぎぇ", "gyo": "ぎょ",
	"gwa": "ぐぁ", "gwi": "ぐぃ", "gwu": "ぐぅ", "gwe": "ぐぇ", "gwo": "ぐぉ",

	"za": "ざ", "zi": "じ", "zu": "ず", "ze": "ぜ", "zo": "ぞ",
	"zya": "じゃ", "zyi": "じぃ", "zyu": "じゅ", "zye": "じぇ", "zyo": "じょ",

	"ja": "じゃ", "ji": "じ", "ju": "じゅ", "je": "じぇ", "jo": "じょ",
	"jya": "じゃ", "jyi": "じぃ", "jyu": "じゅ", "jye": "じぇ", "jyo": "じょ",

	"da": "だ", "di": "ぢ", "du": "づ", "de": "で", "do": "ど",
	"dha": "でゃ", "dhi": "でぃ", "dhu": "でゅ", "dhe": "でぇ", "dho": "でょ",
	"dya": "ぢゃ", "dyi": "ぢぃ", "dyu": "ぢゅ", "dye": "ぢぇ", "dyo": "ぢょ",
	"dwa": "どぁ", "dwi": "どぃ", "dwu": "どぅ", "dwe": "どぇ", "dwo": "どぉ",

	"ba": "ば", "bi": "び", "bu": "ぶ", "be": "べ", "bo": "ぼ",
	"bya": "びゃ", "byi": "びぃ", "byu": "びゅ", "bye": "びぇ", "byo": "びょ",

	"va": "ゔぁ", "vi": "ゔぃ", "vu": "ゔ", "ve": "ゔぇ", "vo": "ゔぉ",
	"vya": "ゔゃ", "vyi": "ゔぃ", "vyu": "ゔゅ", "vye": "ゔぇ", "vyo": "ゔょ",

	"pa": "ぱ", "pi": "ぴ", "pu": "ぷ", "pe": "ぺ", "po": "ぽ",
	"pya": "ぴゃ", "pyi": "ぴぃ", "pyu": "ぴゅ", "pye": "ぴぇ", "pyo": "ぴょ",

	"xa": "ぁ", "xi": "ぃ", "xu": "ぅ", "xe": "ぇ", "xo": "ぉ",
	"xya": "ゃ", "xyi": "ぃ", "xyu": "ゅ", "xye": "ぇ", "xyo": "ょ",
	"xtu": "っ", "xtsu": "っ", "xwa": "ゎ", "xn": "ん",
	"xka": "ゕ", "xke": "ゖ",

	"la": "ぁ", "li": "ぃ", "lu": "ぅ", "le": "ぇ", "lo": "ぉ",
	"lya": "ゃ", "lyi": "ぃ", "lyu": "ゅ", "lye": "ぇ", "lyo": "ょ",
	"ltu": "っ", "ltsu": "っ", "lwa": "ゎ",
	"lka": "ゕ", "lke": "ゖ",
}

type romaNode struct {
	kana     string
	children map[rune]*romaNode
}

var romaTrie = buildRomaTrie()

func buildRomaTrie() *romaNode {
	root := &romaNode{children: make(map[rune]*romaNode)}
	for sequence, kana := range romaKanaTable {
		node := root
		for _, r := range sequence {
			if node.children == nil {
				node.children = make(map[rune]*romaNode)
			}
			child, ok := node.children[r]
			if !ok {
				child = &romaNode{}
				node.children[r] = child
			}
			node = child
		}
		node.kana = kana
	}
	return root
}

var macronReplacer = strings.NewReplacer(
	"ā", "a-",
	"ī", "i-",
	"ū", "u-",
	"ē", "e-",
	"ō", "o-",
)

func isRomaLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || r == '-'
}

func isVowel(r rune) bool {
	return r == 'a' || r == 'i' || r == 'u' || r == 'e' || r == 'o'
}

// RomaToHira converts romaji into hiragana via longest-prefix trie matching,
// with the usual input-method rules: "nn" and syllable-final "n" become ん,
// a doubled consonant (or "tc") becomes っ, and macron vowels expand into
// the prolonged sound mark. Characters with no reading pass through.
func RomaToHira(roma string) string {
	roma = macronReplacer.Replace(strings.ToLower(roma))
	runes := []rune(roma)

	var result strings.Builder
	tmp := ""
	node := romaTrie
	push := func(s string, toRoot bool) {
		result.WriteString(s)
		tmp = ""
		if toRoot {
			node = romaTrie
		}
	}

	index := 0
	for index < len(runes) {
		char := runes[index]
		if isRomaLetter(char) {
			var prev, next rune
			if index > 0 {
				prev = runes[index-1]
			}
			if index+1 < len(runes) {
				next = runes[index+1]
			}
			if child, ok := node.children[char]; ok {
				if child.kana != "" {
					push(child.kana, true)
					// "n" before a vowel syllable starts a fresh one.
					if prev == 'n' && char == 'n' && isVowel(next) {
						continue
					}
				} else {
					tmp += string(char)
					node = child
				}
				index++
				continue
			}
			if prev != 0 && (prev == 'n' || prev == char || (prev == 't' && char == 'c')) {
				if prev == 'n' {
					push("ん", false)
				} else {
					push("っ", false)
				}
			}
			if node != romaTrie {
				if _, ok := romaTrie.children[char]; ok {
					if tmp == "n" {
						push("ん", true)
					} else {
						push(tmp, true)
					}
					continue
				}
			}
		}
		if tmp == "n" {
			push("ん"+string(char), true)
		} else {
			push(tmp+string(char), true)
		}
		index++
	}
	if strings.HasSuffix(tmp, "n") {
		tmp = strings.TrimSuffix(tmp, "n") + "ん"
	}
	push(tmp, true)
	return result.String()
}
