package intent

import (
	"strings"
	"unicode"
)

// Language selects which lexicon the matcher evaluates and which message
// catalogue replies are rendered from.
type Language string

const (
	English Language = "en"
	Urdu    Language = "ur"
)

// Valid reports whether l is a supported language code.
func (l Language) Valid() bool {
	return l == English || l == Urdu
}

// romanMarkers are romanized-Urdu words common enough to flip detection when
// the utterance carries no Arabic script at all.
var romanMarkers = []string{
	"kaam", "karo", "karen", "dikhao", "dikhayen", "batao",
	"hatao", "mitao", "mukammal", "talash", "dhoondo", "shamil",
}

// DetectLanguage guesses the utterance language. Urdu is written in an
// extended Arabic script, so a significant share of Arabic-block letters is
// a reliable signal; romanized Urdu is caught by a small marker-word list
// instead. An utterance with no letters at all carries no signal and yields
// fallback (the configured default language).
func DetectLanguage(text string, fallback Language) Language {
	letters, arabic := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Arabic, r) {
			arabic++
		}
	}
	if letters == 0 {
		if fallback.Valid() {
			return fallback
		}
		return English
	}
	if arabic*3 >= letters {
		return Urdu
	}

	// Split on non-letter runes so markers still match when glued to
	// punctuation ("naya kaam: doodh lena").
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if contains(romanMarkers, w) {
			return Urdu
		}
	}
	return English
}
