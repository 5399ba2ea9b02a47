package intent

import (
	"regexp"
	"strings"
)

// englishRules returns the English rule table, most-specific-first. Order
// matters: Confirm/Deny sit first so bare replies never reach task rules,
// destructive and targeted rules come before list/search, and the bare
// "task <description>" create rule is last because it is the loosest.
func englishRules(m *Matcher) []rule {
	rules := confirmDenyRules()

	rules = append(rules,
		rule{
			name:    "complete.mark",
			intent:  CompleteTask,
			pattern: regexp.MustCompile(`\bmark\b.*\b(?:done|complete|completed)\b`),
			extract: []extractor{
				extractTaskID(),
				extractSearchTerm("mark", "as", "done", "complete", "completed"),
			},
		},
		rule{
			name:    "complete.verb",
			intent:  CompleteTask,
			pattern: regexp.MustCompile(`^(?:i(?:'ve| have)? )?(?:complete|completed|finish|finished|done with)\b`),
			extract: []extractor{
				extractTaskID(),
				extractSearchTerm("i", "have", "complete", "completed", "finish", "finished", "done", "with"),
			},
		},
		rule{
			name:    "delete.verb",
			intent:  DeleteTask,
			pattern: regexp.MustCompile(`\b(?:delete|remove|drop)\b|\bcancel\b\s+\S`),
			extract: []extractor{
				extractTaskID(),
				extractSearchTerm(),
			},
		},
		rule{
			name:    "update.verb",
			intent:  UpdateTask,
			pattern: regexp.MustCompile(`\b(?:update|change|edit|rename|modify)\b`),
			extract: []extractor{
				extractTaskID(),
				extractUpdateContent(),
			},
		},
		// Priority- or category-qualified "show ..." phrasings are searches,
		// not plain listings, so they must be tried before list.show.
		rule{
			name:    "search.filtered",
			intent:  SearchTasks,
			pattern: filteredShowPattern(m.categories),
			extract: []extractor{extractSearchFilters(m.categories)},
		},
		rule{
			name:    "search.verb",
			intent:  SearchTasks,
			pattern: regexp.MustCompile(`^(?:search|find|look for)\b`),
			extract: []extractor{extractSearchFilters(m.categories)},
		},
		rule{
			name:    "list.left",
			intent:  ListTasks,
			pattern: regexp.MustCompile(`^what(?:'s| is)? left\b`),
			extract: []extractor{constantSlot(SlotStatusFilter, "pending")},
		},
		rule{
			name:    "list.show",
			intent:  ListTasks,
			pattern: regexp.MustCompile(`\b(?:show|list|display|view)\b.*\b(?:tasks?|todos?|list)\b`),
			reject:  regexp.MustCompile(`\b(?:task|todo)\s+(?:id\s+)?\d`),
			extract: []extractor{extractListStatus()},
		},
		rule{
			name:    "list.bare",
			intent:  ListTasks,
			pattern: regexp.MustCompile(`^(?:my )?(?:tasks|todos|task list|todo list)$|^what do i have\b`),
			extract: []extractor{extractListStatus()},
		},
		rule{
			name:    "create.add-to-list",
			intent:  CreateTask,
			pattern: regexp.MustCompile(`^add\s+(.+?)\s+to (?:my |the )?(?:list|tasks?|todos?|todo list|task list)$`),
			extract: []extractor{extractGroup(SlotNewContent, 1)},
		},
		rule{
			name:    "create.remind",
			intent:  CreateTask,
			pattern: regexp.MustCompile(`^remind me(?: to)?\s+(.+)$`),
			extract: []extractor{extractGroup(SlotNewContent, 1)},
		},
		rule{
			name:    "create.verb",
			intent:  CreateTask,
			pattern: regexp.MustCompile(`\b(?:add|create|make|new)\b.*?\b(?:task|todo)\b[:\s]*(?:(?:by|for|to|called|named)\s+)?(.*)$`),
			reject:  regexp.MustCompile(`\b(?:task|todo)\s+(?:(?:id|number|no\.?|#)\s*)?\d`),
			extract: []extractor{extractGroup(SlotNewContent, 1)},
		},
		// The single most error-prone rule in the table: a bare
		// "task <description>" is a creation, but "task 5" and "task id 5"
		// must never be. RE2 has no negative lookahead, so the exclusion
		// lives in the reject guard.
		rule{
			name:    "create.bare",
			intent:  CreateTask,
			pattern: regexp.MustCompile(`^(?:a\s+)?task\b[:\s]*(?:(?:by|for|to)\s+)?(.+)$`),
			reject:  regexp.MustCompile(`^(?:a\s+)?task\s+(?:(?:id|number|no\.?|#)\s*)?\d`),
			extract: []extractor{extractGroup(SlotNewContent, 1)},
		},
	)

	return rules
}

// filteredShowPattern builds the search.filtered pattern from the configured
// category vocabulary: a show/list verb qualified by a priority keyword or a
// known category.
func filteredShowPattern(categories []string) *regexp.Regexp {
	quals := []string{"high", "urgent", "important", "medium", "normal", "low", "minor"}
	for _, c := range categories {
		quals = append(quals, regexp.QuoteMeta(strings.ToLower(c)))
	}
	return regexp.MustCompile(
		`\b(?:show|list|display|view)\b.*\b(?:` + strings.Join(quals, "|") + `)\b.*\b(?:tasks?|todos?)\b`)
}
