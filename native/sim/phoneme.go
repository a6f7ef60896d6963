package sim

import "strings"

// mora is one pronunciation unit of a katakana string.
type mora struct {
	text      string
	consonant string
	vowel     string // empty for N and cl
}

var moraTable = buildMoraTable()

func buildMoraTable() map[string]mora {
	t := make(map[string]mora)
	vowels := []string{"a", "i", "u", "e", "o"}
	rows := []struct{ kana, consonant string }{
		{"アイウエオ", ""},
		{"カキクケコ", "k"},
		{"ガギグゲゴ", "g"},
		{"サシスセソ", "s"},
		{"ザジズゼゾ", "z"},
		{"タチツテト", "t"},
		{"ダヂヅデド", "d"},
		{"ナニヌネノ", "n"},
		{"ハヒフヘホ", "h"},
		{"バビブベボ", "b"},
		{"パピプペポ", "p"},
		{"マミムメモ", "m"},
		{"ラリルレロ", "r"},
		{"ァィゥェォ", ""},
	}
	for _, row := range rows {
		for i, k := range []rune(row.kana) {
			t[string(k)] = mora{text: string(k), consonant: row.consonant, vowel: vowels[i]}
		}
	}
	irregular := map[string][2]string{
		"シ": {"sh", "i"}, "ジ": {"j", "i"}, "チ": {"ch", "i"}, "ツ": {"ts", "u"},
		"ヂ": {"j", "i"}, "ヅ": {"z", "u"}, "フ": {"f", "u"},
		"ヤ": {"y", "a"}, "ユ": {"y", "u"}, "ヨ": {"y", "o"},
		"ャ": {"y", "a"}, "ュ": {"y", "u"}, "ョ": {"y", "o"},
		"ワ": {"w", "a"}, "ヮ": {"w", "a"}, "ヲ": {"", "o"}, "ヴ": {"v", "u"},
		"ファ": {"f", "a"}, "フィ": {"f", "i"}, "フェ": {"f", "e"}, "フォ": {"f", "o"},
		"ティ": {"t", "i"}, "ディ": {"d", "i"}, "トゥ": {"t", "u"}, "ドゥ": {"d", "u"},
		"ウィ": {"w", "i"}, "ウェ": {"w", "e"}, "ウォ": {"w", "o"},
		"シェ": {"sh", "e"}, "ジェ": {"j", "e"}, "チェ": {"ch", "e"},
		"ツァ": {"ts", "a"}, "ヴァ": {"v", "a"}, "デュ": {"dy", "u"},
	}
	for k, v := range irregular {
		t[k] = mora{text: k, consonant: v[0], vowel: v[1]}
	}
	yoon := map[string]string{
		"キ": "ky", "ギ": "gy", "シ": "sh", "ジ": "j", "チ": "ch", "ヂ": "j",
		"ニ": "ny", "ヒ": "hy", "ビ": "by", "ピ": "py", "ミ": "my", "リ": "ry",
	}
	small := []string{"ャ", "ュ", "ョ"}
	for k, c := range yoon {
		for i, s := range small {
			t[k+s] = mora{text: k + s, consonant: c, vowel: []string{"a", "u", "o"}[i]}
		}
	}
	t["ン"] = mora{text: "ン", consonant: "N"}
	t["ッ"] = mora{text: "ッ", consonant: "cl"}
	return t
}

const (
	longMark     = 'ー'
	unvoicedMark = '’'
	pauseMark    = "、"
)

// splitMoras parses a katakana pronunciation. Unknown runes are dropped.
func splitMoras(pron string) []mora {
	runes := []rune(pron)
	var out []mora
	for i := 0; i < len(runes); i++ {
		if i+1 < len(runes) {
			if m, ok := moraTable[string(runes[i:i+2])]; ok {
				out = append(out, m)
				i++
				continue
			}
		}
		r := runes[i]
		switch {
		case r == longMark:
			v := ""
			if len(out) > 0 {
				v = strings.ToLower(out[len(out)-1].vowel)
			}
			out = append(out, mora{text: string(r), vowel: v})
		case r == unvoicedMark:
			if len(out) > 0 {
				last := &out[len(out)-1]
				last.text += string(r)
				last.vowel = strings.ToUpper(last.vowel)
			}
		default:
			if m, ok := moraTable[string(r)]; ok {
				out = append(out, m)
			}
		}
	}
	return out
}

func joinMoras(ms []mora) string {
	var b strings.Builder
	for _, m := range ms {
		b.WriteString(m.text)
	}
	return b.String()
}

// phonemes returns the phoneme sequence of a pronunciation; a pause mark
// becomes "pau".
func phonemes(pron string) []string {
	if pron == pauseMark {
		return []string{"pau"}
	}
	var out []string
	for _, m := range splitMoras(pron) {
		if m.consonant != "" {
			out = append(out, m.consonant)
		}
		if m.vowel != "" {
			out = append(out, m.vowel)
		}
	}
	return out
}

// toKatakana maps hiragana to katakana and reports whether every rune of
// s was kana.
func toKatakana(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	allKana := true
	out := strings.Map(func(r rune) rune {
		switch {
		case r >= 'ぁ' && r <= 'ゖ':
			return r + ('ァ' - 'ぁ')
		case (r >= 'ァ' && r <= 'ヺ') || r == longMark:
			return r
		default:
			allKana = false
			return r
		}
	}, s)
	return out, allKana
}

var digitReadings = map[rune]string{
	'0': "ゼロ", '1': "イチ", '2': "ニ", '3': "サン", '4': "ヨン",
	'5': "ゴ", '6': "ロク", '7': "ナナ", '8': "ハチ", '9': "キュー",
}

// digitReading reads a run of ASCII or full-width digits one by one.
func digitReading(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	var b strings.Builder
	for _, r := range s {
		if r >= '０' && r <= '９' {
			r = r - '０' + '0'
		}
		reading, ok := digitReadings[r]
		if !ok {
			return "", false
		}
		b.WriteString(reading)
	}
	return b.String(), true
}
