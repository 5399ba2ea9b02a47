package intent

import (
	"regexp"
	"sort"
	"strings"
)

// Affirmative and negative vocabularies for the confirmation gate. Both
// lexicons share the union of English, Urdu-script, and romanized-Urdu
// words so a reply like "ji" or "جی" resolves no matter which language the
// turn was detected as.
var (
	affirmativeWords = []string{
		"yes", "yeah", "yep", "yup", "y", "ok", "okay", "sure",
		"confirm", "go ahead", "do it", "affirmative",
		"ji haan", "ji", "jee", "haan", "han", "theek hai", "bilkul",
		"جی ہاں", "جی", "ہاں", "ٹھیک ہے", "بالکل", "ضرور",
	}
	negativeWords = []string{
		"no", "nope", "nah", "never mind", "nevermind", "dont", "don't",
		"nahi", "nahin", "rehne do",
		"نہیں", "نہ", "رہنے دو", "رہنے دیں",
	}
)

// wordPrefixPattern compiles a word list into an anchored alternation that
// matches the utterance start followed by a break. Longest words first so
// "ji haan" wins over "ji". Go's \b is ASCII-only and never fires next to
// Arabic script, so an explicit break class is used instead.
func wordPrefixPattern(words []string) *regexp.Regexp {
	sorted := append([]string{}, words...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })
	quoted := make([]string, len(sorted))
	for i, w := range sorted {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`^(?:` + strings.Join(quoted, "|") + `)(?:$|[\s,!.؟۔])`)
}

// confirmDenyRules returns the Confirm/Deny rules shared by every lexicon.
// They sit first in each rule table: a bare "yes" must never fall through
// to a task rule. "cancel" counts as Deny only as a whole utterance —
// "cancel the groceries task" is a removal, not a denial.
func confirmDenyRules() []rule {
	return []rule{
		{
			name:    "confirm.affirmative",
			intent:  Confirm,
			pattern: wordPrefixPattern(affirmativeWords),
		},
		{
			name:    "deny.negative",
			intent:  Deny,
			pattern: wordPrefixPattern(negativeWords),
		},
		{
			name:    "deny.cancel",
			intent:  Deny,
			pattern: regexp.MustCompile(`^cancel$`),
		},
	}
}
