package intent

import "regexp"

// urduRules returns the Urdu rule table. Patterns accept both Urdu script
// and common romanizations, since users mix freely ("kaam 3 delete karo").
// Note that Go's \b never fires next to Arabic-script letters, so the
// patterns use explicit alternation boundaries instead of word anchors.
//
// Rule shape and ordering discipline are identical to the English table.
func urduRules(m *Matcher) []rule {
	rules := confirmDenyRules()

	rules = append(rules,
		rule{
			name:    "ur.complete",
			intent:  CompleteTask,
			pattern: regexp.MustCompile(`مکمل|ہو ?گیا|mukammal|ho ?gaya`),
			extract: []extractor{
				extractTaskID(),
				extractSearchTerm("مکمل", "ہو", "گیا", "ہوگیا", "mukammal", "ho", "gaya"),
			},
		},
		rule{
			name:    "ur.delete",
			intent:  DeleteTask,
			pattern: regexp.MustCompile(`حذف|ختم|مٹا|ہٹا|hatao|mitao|mita|khatam|delete`),
			extract: []extractor{
				extractTaskID(),
				extractSearchTerm("khatam", "delete"),
			},
		},
		rule{
			name:    "ur.update",
			intent:  UpdateTask,
			pattern: regexp.MustCompile(`تبدیل|بدل|tabdeel|badal|badlo|update`),
			extract: []extractor{
				extractTaskID(),
				extractUpdateContent(),
			},
		},
		rule{
			name:    "ur.search",
			intent:  SearchTasks,
			pattern: regexp.MustCompile(`تلاش|ڈھونڈ|talash|dhoond`),
			extract: []extractor{extractSearchFilters(m.categories)},
		},
		rule{
			name:    "ur.create",
			intent:  CreateTask,
			pattern: regexp.MustCompile(`نیا کام|کام شامل|شامل کرو|شامل کریں|naya kaam|kaam shamil|shamil karo|shamil karen`),
			extract: []extractor{
				extractStrippedContent(
					"نیا کام", "کام شامل", "شامل کرو", "شامل کریں", "شامل", "نیا",
					"naya kaam", "kaam shamil", "shamil karo", "shamil karen", "shamil",
				),
			},
		},
		rule{
			name:    "ur.list",
			intent:  ListTasks,
			pattern: regexp.MustCompile(`دکھاؤ|دکھائیں|دکھا|فہرست|میرے کام|dikhao|dikhayen|mere kaam|list`),
			extract: []extractor{extractListStatus()},
		},
	)

	return rules
}
