package assistant_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/academic-requests/internal/assistant"
	"github.com/frahmantamala/academic-requests/internal/auth"
	requestDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/request"
	"github.com/frahmantamala/academic-requests/internal/policy"
)

var _ = Describe("Assistant Handler", func() {
	var (
		router    *chi.Mux
		completer *fakeCompleter
		caller    *auth.User
	)

	BeforeEach(func() {
		completer = &fakeCompleter{reply: "ok"}
		lister := &fakeLister{byStudent: map[int64][]*requestDatamodel.Request{
			7: {{Subject: "s", RequestType: "other", Status: "pending"}},
		}}
		caller = &auth.User{ID: 7, Role: "student"}

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		handler := assistant.NewHandler(assistant.NewService(lister, completer, logger), policy.New(), logger)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), caller)))
			})
		})
		router.Post("/assistant/chat", handler.Chat)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/assistant/chat", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("answers with a reply body", func() {
		rec := post(`{"message": "הבקשות שלי", "student_id": 7}`)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring("– סטטוס: pending"))
	})

	It("renders validation failures as a 400 reply", func() {
		rec := post(`{"message": ""}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(MatchJSON(`{"reply": "לא התקבלה הודעה"}`))

		rec = post(`{"message": "מה הסטטוס"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Body.String()).To(MatchJSON(`{"reply": "חסרים פרטי מזהה סטודנט לבדיקת בקשות."}`))
	})

	It("renders model failures as a 500 reply", func() {
		completer.err = errors.New("timeout")
		rec := post(`{"message": "hello"}`)
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(MatchJSON(`{"reply": "שגיאה: timeout"}`))
	})

	It("keeps students out of other students' requests", func() {
		rec := post(`{"message": "הבקשות שלי", "student_id": 8}`)
		Expect(rec.Code).To(Equal(http.StatusForbidden))
	})
})
