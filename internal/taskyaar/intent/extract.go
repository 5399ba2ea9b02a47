package intent

import (
	"regexp"
	"strings"
)

// Slot extraction helpers shared by both lexicons. Each returns an extractor
// so rules read as data (pattern → intent + extractors).

var standaloneInt = regexp.MustCompile(`(?:^|[\s#])(\d+)(?:$|[\s,.:؟۔])`)

// extractTaskID fills task_id with the first standalone integer in the
// utterance, if any.
func extractTaskID() extractor {
	return func(text string, _ []string, slots Slots) {
		if g := standaloneInt.FindStringSubmatch(text); g != nil {
			slots[SlotTaskID] = g[1]
		}
	}
}

// extractGroup fills the named slot from the rule pattern's capture group.
func extractGroup(slot string, group int) extractor {
	return func(_ string, groups []string, slots Slots) {
		if group < len(groups) {
			if v := strings.TrimSpace(groups[group]); v != "" {
				slots[slot] = v
			}
		}
	}
}

// removalVerbs and targetNouns are stripped when isolating a referent name
// from a removal-style utterance ("delete the groceries task" → "groceries").
var (
	removalVerbs = []string{
		"delete", "remove", "cancel", "drop", "hatao", "mitao", "khatam",
		"حذف", "ختم", "مٹا", "مٹاؤ", "ہٹاؤ", "ہٹا",
	}
	targetNouns = []string{
		"task", "todo", "item", "kaam", "کام", "والا", "karo", "karen", "do", "کرو", "کریں",
	}
	fillerWords = []string{
		"the", "a", "an", "my", "that", "this", "it", "please", "one",
		"mera", "meri", "wala", "yeh", "woh", "ise", "isse", "usko", "usay",
		"میرا", "میری", "یہ", "وہ", "اسے", "اس", "کو",
	}
)

// extractSearchTerm strips leading removal verbs (plus any rule-specific
// extra verbs), filler, and trailing task nouns to isolate the referent
// name. Nothing left over means the utterance had no usable referent (e.g.
// "delete it") and no slot is set — the context resolver takes over.
func extractSearchTerm(extraVerbs ...string) extractor {
	verbs := append(append([]string{}, removalVerbs...), extraVerbs...)
	return func(text string, _ []string, slots Slots) {
		if standaloneInt.MatchString(text) {
			// A concrete ID is present; the ID extractor wins.
			return
		}
		words := strings.Fields(text)
		words = stripLeading(words, verbs)
		words = stripLeading(words, fillerWords)
		words = stripTrailing(words, targetNouns)
		words = stripTrailing(words, verbs)
		words = stripTrailing(words, fillerWords)
		if len(words) > 0 {
			slots[SlotSearchTerm] = strings.Join(words, " ")
		}
	}
}

// extractStrippedContent removes the given phrases from the utterance and
// sets whatever remains as new_content. Used by Urdu create/update rules
// where the verb phrase can appear anywhere in the sentence.
func extractStrippedContent(phrases ...string) extractor {
	return func(text string, _ []string, slots Slots) {
		for _, p := range phrases {
			text = strings.ReplaceAll(text, p, " ")
		}
		text = strings.Trim(text, " :,-")
		words := strings.Fields(text)
		words = stripLeading(words, fillerWords)
		words = stripTrailing(words, targetNouns)
		words = stripTrailing(words, fillerWords)
		if len(words) > 0 {
			slots[SlotNewContent] = strings.Join(words, " ")
		}
	}
}

var contentSeparator = regexp.MustCompile(`\s+(?:to|with|کو)\s+|:\s*`)

// trailingVerbPhrases are Urdu verb tails that follow the new content in
// update utterances ("... میں تبدیل کریں").
var trailingVerbPhrases = []string{
	"میں تبدیل کریں", "میں تبدیل کرو", "میں تبدیل کر دو",
	"mein tabdeel karen", "mein tabdeel karo", "kar do", "karo", "karen",
}

// extractUpdateContent captures the remainder of the utterance after the
// first separator token ("to", "with", "کو", or ":"), trimming any trailing
// verb phrase.
func extractUpdateContent() extractor {
	return func(text string, _ []string, slots Slots) {
		loc := contentSeparator.FindStringIndex(text)
		if loc == nil {
			return
		}
		rest := strings.TrimSpace(text[loc[1]:])
		for _, p := range trailingVerbPhrases {
			rest = strings.TrimSpace(strings.TrimSuffix(rest, p))
		}
		if rest != "" {
			slots[SlotNewContent] = rest
		}
	}
}

// statusKeywords maps status-filter vocabulary (both languages) to the
// canonical filter values understood by the task store.
var statusKeywords = map[string]string{
	"pending": "pending", "open": "pending", "incomplete": "pending",
	"remaining": "pending", "باقی": "pending", "baqi": "pending",
	"completed": "completed", "done": "completed", "finished": "completed",
	"مکمل": "completed", "mukammal": "completed",
	"all": "all", "everything": "all", "سب": "all", "sab": "all", "sarey": "all",
}

// extractListStatus fills status_filter from a status keyword, defaulting
// to "all" when none is present.
func extractListStatus() extractor {
	return func(text string, _ []string, slots Slots) {
		slots[SlotStatusFilter] = "all"
		for _, w := range strings.Fields(text) {
			if status, ok := statusKeywords[w]; ok {
				slots[SlotStatusFilter] = status
				return
			}
		}
	}
}

// priorityKeywords maps priority vocabulary to canonical priority values.
var priorityKeywords = map[string]string{
	"high": "high", "urgent": "high", "important": "high", "اہم": "high", "zaroori": "high", "ضروری": "high",
	"medium": "medium", "normal": "medium", "درمیانی": "medium",
	"low": "low", "minor": "low", "معمولی": "low",
}

// searchVerbs are stripped before deriving the residual keyword.
var searchVerbs = []string{
	"search", "find", "look", "for", "show", "me", "get",
	"talash", "dhoondo", "تلاش", "ڈھونڈو", "ڈھونڈیں",
}

// extractSearchFilters pulls a priority keyword, a category keyword from the
// known category set, and the residual keyword left after stripping
// search-verb prefixes and the matched priority/category tokens.
func extractSearchFilters(categories []string) extractor {
	catSet := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		catSet[strings.ToLower(c)] = struct{}{}
	}

	return func(text string, _ []string, slots Slots) {
		var residual []string
		for _, w := range strings.Fields(text) {
			if p, ok := priorityKeywords[w]; ok && !slots.Has(SlotPriority) {
				slots[SlotPriority] = p
				continue
			}
			if _, ok := catSet[w]; ok && !slots.Has(SlotCategory) {
				slots[SlotCategory] = w
				continue
			}
			residual = append(residual, w)
		}

		residual = stripLeading(residual, searchVerbs)
		residual = stripLeading(residual, fillerWords)
		residual = stripTrailing(residual, targetNouns)
		residual = stripTrailing(residual, []string{"tasks", "todos", "priority", "category", "کام"})
		if len(residual) > 0 {
			slots[SlotKeyword] = strings.Join(residual, " ")
		}
	}
}

// constantSlot unconditionally sets a slot to a fixed value. Used by rules
// whose wording implies the value (e.g. "what's left" → pending).
func constantSlot(slot, value string) extractor {
	return func(_ string, _ []string, slots Slots) {
		slots[slot] = value
	}
}

func stripLeading(words, stop []string) []string {
	for len(words) > 0 && contains(stop, words[0]) {
		words = words[1:]
	}
	return words
}

func stripTrailing(words, stop []string) []string {
	for len(words) > 0 && contains(stop, words[len(words)-1]) {
		words = words[:len(words)-1]
	}
	return words
}

func contains(list []string, w string) bool {
	for _, s := range list {
		if s == w {
			return true
		}
	}
	return false
}
