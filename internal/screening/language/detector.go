// Package language decides whether a normalized name can be hashed as-is, must
// be translated first, or is rejected.
package language

import (
	"unicode"

	"golang.org/x/text/language"
)

// Unknown is returned when no language can be attributed.
const Unknown = "unknown"

type scriptLanguage struct {
	table *unicode.RangeTable
	code  string
}

// ScriptDetector attributes a name to a language by its dominant Unicode
// script. Names carry too little text for statistical detection, but the
// script is a reliable signal for the routing decision (translate or not).
type ScriptDetector struct {
	scripts []scriptLanguage
}

type DetectorOption func(*ScriptDetector)

// WithLatinLanguage sets the code reported for Latin-script names (default "en").
func WithLatinLanguage(code string) DetectorOption {
	return func(d *ScriptDetector) {
		d.scripts[0].code = Canonicalize(code)
	}
}

func NewScriptDetector(opts ...DetectorOption) *ScriptDetector {
	d := &ScriptDetector{scripts: []scriptLanguage{
		{unicode.Latin, "en"},
		{unicode.Arabic, "ar"},
		{unicode.Cyrillic, "ru"},
		{unicode.Greek, "el"},
		{unicode.Hebrew, "he"},
		{unicode.Devanagari, "hi"},
		{unicode.Thai, "th"},
		{unicode.Hangul, "ko"},
		{unicode.Hiragana, "ja"},
		{unicode.Katakana, "ja"},
		{unicode.Han, "zh"},
	}}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the language whose script covers the most letters of text.
// Han characters count as Japanese when any kana is present.
func (d *ScriptDetector) Detect(text string) string {
	counts := make(map[string]int)
	hasKana := false
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		for _, s := range d.scripts {
			if unicode.Is(s.table, r) {
				code := s.code
				if s.table == unicode.Hiragana || s.table == unicode.Katakana {
					hasKana = true
				}
				counts[code]++
				break
			}
		}
	}
	if hasKana {
		counts["ja"] += counts["zh"]
		delete(counts, "zh")
	}

	best, bestCount := Unknown, 0
	// Iterate in declaration order so ties resolve deterministically.
	for _, s := range d.scripts {
		if c := counts[s.code]; c > bestCount {
			best, bestCount = s.code, c
		}
	}
	return best
}

// Canonicalize reduces a BCP 47 tag ("en-US", "AR", "zh-Hant") to its base
// language code. Unparseable input yields Unknown.
func Canonicalize(code string) string {
	if code == "" || code == Unknown {
		return Unknown
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Unknown
	}
	base, _ := tag.Base()
	if b := base.String(); b != "und" {
		return b
	}
	return Unknown
}
