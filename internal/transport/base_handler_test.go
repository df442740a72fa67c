package transport_test

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/transport"
)

var _ = Describe("BaseHandler", func() {
	var h *transport.BaseHandler

	BeforeEach(func() {
		h = transport.NewBaseHandler(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
	})

	decode := func(rec *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(rec.Body.Bytes(), &body)).To(Succeed())
		return body["error"].(map[string]interface{})
	}

	Describe("HandleServiceError", func() {
		It("uses the status code carried by an AppError", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)

			h.HandleServiceError(rec, req, internal.ErrRequestNotFound)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(decode(rec)["code"]).To(Equal("REQUEST_NOT_FOUND"))
		})

		It("unwraps wrapped AppErrors", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)

			h.HandleServiceError(rec, req, internal.ErrPermissionDenied.WithCause(errors.New("nope")))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("hides plain errors behind a 500", func() {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)

			h.HandleServiceError(rec, req, errors.New("db exploded"))

			Expect(rec.Code).To(Equal(http.StatusInternalServerError))
			Expect(rec.Body.String()).NotTo(ContainSubstring("db exploded"))
		})
	})

	Describe("DecodeJSON", func() {
		It("rejects an empty body", func() {
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(""))
			var dst map[string]string
			err := h.DecodeJSON(req, &dst)
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusBadRequest))
		})

		It("decodes valid JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":"b"}`))
			var dst map[string]string
			Expect(h.DecodeJSON(req, &dst)).To(Succeed())
			Expect(dst).To(HaveKeyWithValue("a", "b"))
		})
	})

	Describe("ExtractTokenFromHeader", func() {
		It("reads bearer tokens", func() {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Authorization", "Bearer abc.def")
			Expect(h.ExtractTokenFromHeader(req)).To(Equal("abc.def"))
		})

		It("ignores other schemes", func() {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			req.Header.Set("Authorization", "Basic Zm9v")
			Expect(h.ExtractTokenFromHeader(req)).To(BeEmpty())
		})
	})
})
