// Package assistant answers student chat messages. Known intents get canned
// Hebrew answers; anything else is forwarded to a chat-completion model.
package assistant

import "github.com/frahmantamala/academic-requests/internal"

type ChatDTO struct {
	Message   string `json:"message"`
	StudentID *int64 `json:"student_id"`
}

type Reply struct {
	Reply string `json:"reply"`
}

var (
	ErrEmptyMessage   = internal.NewValidationError("לא התקבלה הודעה", internal.ErrCodeEmptyMessage)
	ErrMissingStudent = internal.NewValidationError("חסרים פרטי מזהה סטודנט לבדיקת בקשות.", internal.ErrCodeValidationFailed)
)

const systemPrompt = "קוראים לך אקדמוס" +
	"אתה עוזר וירטואלי לסטודנטים באתר המיועד להגשת בקשות אקדמיות. " +
	"אתה מסייע בהכוונה, הסבר וכתיבה של בקשות מסוגים שונים כגון ערעור על ציון, " +
	"פטור מקורס, בקשת מילואים ובקשות מיוחדות. " +
	"אם הסטודנט שואל שאלה כללית, עזור לו להבין איזה סוג בקשה עליו להגיש והפנה אותו לעמוד הרלוונטי."
