package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	internal "github.com/rosterly/roster-management/internal"
	"github.com/rosterly/roster-management/internal/session"
)

var _ = Describe("Auth Handler", func() {
	var (
		repo     *mockManagerRepository
		sessions *session.Manager
		handler  *Handler
	)

	BeforeEach(func() {
		repo = newMockManagerRepository()
		lg := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
		sessions = session.NewManager("test-session-secret", lg)
		tokens := NewTokenGenerator("test-secret", time.Hour)
		service := NewService(repo, tokens, bcrypt.MinCost, lg)
		handler = NewHandler(service, sessions)
	})

	postForm := func(target string, form string) (*httptest.ResponseRecorder, *http.Request) {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return httptest.NewRecorder(), req
	}

	Describe("Login", func() {
		It("establishes a session and redirects home", func() {
			w, req := postForm("/login", "username=admin&password=correct_password")
			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/"))
			Expect(w.Result().Cookies()).NotTo(BeEmpty())
		})

		It("redirects back to the login page on bad credentials", func() {
			w, req := postForm("/login", "username=admin&password=nope")
			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusSeeOther))
			Expect(w.Header().Get("Location")).To(Equal("/login"))
		})

		It("trims surrounding whitespace from the form fields", func() {
			w, req := postForm("/login", "username=+admin+&password=+correct_password+")
			handler.Login(w, req)

			Expect(w.Header().Get("Location")).To(Equal("/"))
		})
	})

	Describe("APIToken", func() {
		It("returns a bearer token for valid JSON credentials", func() {
			body := `{"username": "admin", "password": "correct_password"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(body))
			w := httptest.NewRecorder()

			handler.APIToken(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp APITokenResponse
			Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
			Expect(resp.TokenType).To(Equal("Bearer"))
			Expect(resp.AccessToken).NotTo(BeEmpty())
		})

		It("returns 401 for bad credentials", func() {
			body := `{"username": "admin", "password": "nope"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(body))
			w := httptest.NewRecorder()

			handler.APIToken(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("returns 400 for a body that is not JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader("username=admin"))
			w := httptest.NewRecorder()

			handler.APIToken(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("APIAuthMiddleware", func() {
		var protected http.Handler

		BeforeEach(func() {
			protected = handler.APIAuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(internal.ManagerIDFromContext(r.Context())).To(Equal(int64(1)))
				w.WriteHeader(http.StatusOK)
			}))
		})

		It("accepts a valid bearer token", func() {
			resp, err := handler.Service.IssueAPIToken(LoginDTO{Username: "admin", Password: "correct_password"})
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/api/rosters/1", nil)
			req.Header.Set("Authorization", "Bearer "+resp.AccessToken)
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("rejects a request with no credentials", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/rosters/1", nil)
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/rosters/1", nil)
			req.Header.Set("Authorization", "Bearer not-a-token")
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
