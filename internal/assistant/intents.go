package assistant

import "strings"

type intent int

const (
	intentNone intent = iota
	intentStatus
	intentPhrasing
	intentHowToSubmit
	intentAppeal
	intentExemption
	intentMilitary
	intentOther
)

var (
	statusKeywords = []string{"מה מצב הבקשות", "מה הסטטוס", "הבקשות שלי", "עדכון על הבקשות"}

	phrasingKeywords = []string{
		"ניסוח", "ניסח", "לא יודע מה לרשום", "איך לנסח", "תעזור לי לנסח",
		"עזור לי לכתוב", "לרשום נימוק", "איך לכתוב", "איך מתחילים",
	}

	submitKeywords = []string{"איך להגיש בקשה", "להגיש בקשה", "איפה מגישים", "איך אני מגיש"}
)

const (
	keywordAppeal    = "ערעור"
	keywordExemption = "פטור"
	keywordMilitary  = "מילואים"
)

func containsAny(msg string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(msg, kw) {
			return true
		}
	}
	return false
}

// classify picks the first matching intent; the order of checks matters.
func classify(msg string) intent {
	switch {
	case containsAny(msg, statusKeywords):
		return intentStatus
	case containsAny(msg, phrasingKeywords):
		return intentPhrasing
	case containsAny(msg, submitKeywords):
		return intentHowToSubmit
	case strings.Contains(msg, keywordAppeal):
		return intentAppeal
	case strings.Contains(msg, keywordExemption):
		return intentExemption
	case strings.Contains(msg, keywordMilitary):
		return intentMilitary
	case strings.Contains(msg, "בקשה אחרת"), strings.Contains(msg, "בקשה מיוחדת"):
		return intentOther
	}
	return intentNone
}

func phrasingReply(msg string) string {
	switch {
	case strings.Contains(msg, keywordAppeal):
		return phrasingAppeal
	case strings.Contains(msg, keywordExemption):
		return phrasingExemption
	case strings.Contains(msg, keywordMilitary):
		return phrasingMilitary
	}
	return phrasingWhichType
}

const (
	phrasingAppeal = "📄 הנה דוגמה לנימוק לערעור על ציון:\n\n" +
		"נימוק לדוגמה: במהלך הבחינה עניתי על כל השאלות, אך שאלה מספר 3 כנראה לא נבדקה כלל. בנוסף, ייתכן והייתה טעות בהזנת הציון. אשמח לבדיקה נוספת.\n\n" +
		"✅ תוכל לערוך את הנוסח הזה בהתאם למקרה שלך או לספק לי פרטים ואנסח עבורך."

	phrasingExemption = "📄 הנה דוגמה לנימוק לבקשת פטור מקורס:\n\n" +
		"נימוק לדוגמה: הקורס 'מבוא לסטטיסטיקה' נלמד באוניברסיטת תל אביב בשנת 2022. תכניו חופפים לתכני הקורס הנוכחי, כולל חישובי הסתברות ורגרסיה. מצורפים סילבוס וגיליון ציונים.\n\n" +
		"✅ תוכל לשנות את הפרטים או לספר לי יותר כדי שאנסח עבורך גרסה מותאמת."

	phrasingMilitary = "📄 דוגמה לניסוח לבקשת מילואים:\n\n" +
		"נימוק לדוגמה: שירתתי במילואים בין 03.05 ל־15.05, דבר שמנע ממני להגיש את העבודה בזמן. אני מבקש הארכת מועד בהתאם להנחיות. מצורף צו קריאה.\n\n" +
		"✅ אפשר לשנות או לנסח יחד לפי הפרטים שלך."

	phrasingWhichType = "📝 אשמח לעזור בניסוח! באיזו בקשה מדובר?\n" +
		"• ערעור על ציון\n" +
		"• פטור מקורס\n" +
		"• בקשת מילואים\n" +
		"• בקשה אחרת\n\n" +
		"כתוב לי את סוג הבקשה ופרטים חשובים, ואנסח עבורך נוסח מקצועי."

	howToSubmitReply = "📝 ניתן להגיש באתר 4 סוגי בקשות:\n" +
		"1️⃣ ערעור על ציון\n" +
		"2️⃣ בקשה לפטור מקורס\n" +
		"3️⃣ בקשת מילואים\n" +
		"4️⃣ בקשה אחרת\n\n" +
		"גש לעמוד הגשת בקשה ובחר את הסוג המתאים מהרשימה."

	appealChecklist = "📝 כדי להגיש ערעור על ציון, נא למלא את השדות הבאים:\n" +
		"• שם הקורס\n" +
		"• שם המרצה\n" +
		"• מועד הבחינה\n" +
		"• הציון שהתקבל\n" +
		"• נימוק לערעור (לדוגמה: טעות סריקה, שאלה לא נבדקה)\n" +
		"📎 ניתן גם לצרף קובץ (לא חובה).\n\n" +
		"גש לטופס 'ערעור על ציון' בעמוד הבקשות."

	exemptionChecklist = "🎓 בקשה לפטור מקורס מחייבת את המידע הבא:\n" +
		"• שם הקורס ממנו מבוקש הפטור\n" +
		"• שם המוסד הקודם\n" +
		"• שם הקורס שנלמד שם\n" +
		"• נימוק (לדוגמה: תוכן קורס זהה, הישגים גבוהים וכו')\n" +
		"📎 חובה לצרף סילבוס וגיליון ציונים.\n\n" +
		"גש לטופס 'פטור מקורס' בעמוד הבקשות."

	militaryChecklist = "🪖 לבקשת מילואים יש למלא את הפרטים הבאים:\n" +
		"• תאריך תחילת שירות\n" +
		"• תאריך סיום (אם קיים)\n" +
		"• מספר צו או יחידה\n" +
		"• פירוט הבקשה (דחיית מבחן, הארכת מועד וכו')\n" +
		"📎 ניתן לצרף את צו המילואים.\n\n" +
		"גש לטופס 'בקשת מילואים' בעמוד הבקשות."

	otherChecklist = "📄 לבקשות מיוחדות יש למלא:\n" +
		"• נושא הבקשה (כותרת קצרה)\n" +
		"• פירוט מלא וברור\n" +
		"📎 ניתן לצרף מסמכים תומכים אם רלוונטי.\n\n" +
		"גש לטופס 'בקשה אחרת' בעמוד הבקשות."

	statusHeader    = "📋 הנה רשימת הבקשות שלך:\n"
	noRequestsReply = "לא נמצאו בקשות קודמות במערכת."
)

var cannedReplies = map[intent]string{
	intentHowToSubmit: howToSubmitReply,
	intentAppeal:      appealChecklist,
	intentExemption:   exemptionChecklist,
	intentMilitary:    militaryChecklist,
	intentOther:       otherChecklist,
}
