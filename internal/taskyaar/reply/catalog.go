package reply

import "github.com/mjunaidk/taskyaar/internal/taskyaar/intent"

// msgKey names one entry in a language's message catalogue.
type msgKey string

const (
	keyUnknown         msgKey = "unknown"
	keyAmbiguous       msgKey = "ambiguous"
	keyMalformedID     msgKey = "malformed_id"
	keyMissingContent  msgKey = "missing_content"
	keyNothingPending  msgKey = "nothing_pending"
	keyConfirmOrCancel msgKey = "confirm_or_cancel"
	keyCancelled       msgKey = "cancelled"
	keyConfirmPrompt   msgKey = "confirm_prompt" // %s = target label
	keyCreated         msgKey = "created"        // %s = title, %d = id
	keyUpdated         msgKey = "updated"        // %d = id, %s = title
	keyCompleted       msgKey = "completed"      // %d = id, %s = title
	keyDeleted         msgKey = "deleted"        // %d = id
	keyEmptyList       msgKey = "empty_list"
	keyNoMatches       msgKey = "no_matches"
	keyNotFound        msgKey = "not_found"
	keyGenericError    msgKey = "generic_error"
)

// catalogues hold the user-facing strings per language. Replies follow the
// detected language of the turn, so a mixed-language conversation answers
// in kind.
var catalogues = map[intent.Language]map[msgKey]string{
	intent.English: {
		keyUnknown:         "Sorry, I didn't catch that. You can say things like \"add a task to buy milk\", \"show my pending tasks\", or \"delete task 3\".",
		keyAmbiguous:       "Which task do you mean? Tell me its number or its name.",
		keyMalformedID:     "That task number doesn't look right — it should be a plain number, like \"task 3\".",
		keyMissingContent:  "What should the task say?",
		keyNothingPending:  "There's nothing waiting for a yes or no right now.",
		keyConfirmOrCancel: "I'm still waiting on the last question — reply **yes** to go ahead or **no** to cancel.",
		keyCancelled:       "❌ Cancelled. Nothing was deleted.",
		keyConfirmPrompt:   "⚠️ Delete %s? Reply **yes** to delete it or **no** to keep it.",
		keyCreated:         "📝 Saved **%s** as **#%d**.",
		keyUpdated:         "✏️ Updated **#%d**: %s.",
		keyCompleted:       "✅ Marked **#%d** (%s) as done.",
		keyDeleted:         "🗑️ Deleted task **#%d**.",
		keyEmptyList:       "Your list is empty — nothing to show.",
		keyNoMatches:       "No tasks matched that search.",
		keyNotFound:        "That task doesn't exist — check the number and try again.",
		keyGenericError:    "Sorry, something went wrong on my side. Please try again in a moment.",
	},
	intent.Urdu: {
		keyUnknown:         "معذرت، میں سمجھ نہیں پایا۔ آپ کہہ سکتے ہیں: \"نیا کام: دودھ خریدنا\"، \"میرے کام دکھاؤ\"، یا \"کام 3 حذف کرو\"۔",
		keyAmbiguous:       "کون سا کام؟ اس کا نمبر یا نام بتائیں۔",
		keyMalformedID:     "یہ کام کا نمبر درست نہیں لگتا — سادہ نمبر لکھیں، جیسے \"کام 3\"۔",
		keyMissingContent:  "کام میں کیا لکھوں؟",
		keyNothingPending:  "ابھی کوئی سوال جواب کے انتظار میں نہیں ہے۔",
		keyConfirmOrCancel: "پچھلے سوال کا جواب باقی ہے — آگے بڑھنے کے لیے **جی** اور منسوخ کرنے کے لیے **نہیں** لکھیں۔",
		keyCancelled:       "❌ منسوخ۔ کچھ حذف نہیں ہوا۔",
		keyConfirmPrompt:   "⚠️ %s حذف کریں؟ حذف کرنے کے لیے **جی** اور رکھنے کے لیے **نہیں** لکھیں۔",
		keyCreated:         "📝 **%s** محفوظ ہو گیا، نمبر **#%d**۔",
		keyUpdated:         "✏️ **#%d** تبدیل ہو گیا: %s۔",
		keyCompleted:       "✅ **#%d** (%s) مکمل ہو گیا۔",
		keyDeleted:         "🗑️ کام **#%d** حذف ہو گیا۔",
		keyEmptyList:       "آپ کی فہرست خالی ہے — دکھانے کو کچھ نہیں۔",
		keyNoMatches:       "اس تلاش سے کوئی کام نہیں ملا۔",
		keyNotFound:        "یہ کام موجود نہیں — نمبر دیکھ کر دوبارہ کوشش کریں۔",
		keyGenericError:    "معذرت، میری طرف سے کچھ گڑبڑ ہو گئی۔ تھوڑی دیر بعد دوبارہ کوشش کریں۔",
	},
}

// text returns the catalogue entry for lang, falling back to English when a
// language or key is missing.
func text(lang intent.Language, key msgKey) string {
	if cat, ok := catalogues[lang]; ok {
		if s, ok := cat[key]; ok {
			return s
		}
	}
	return catalogues[intent.English][key]
}
