package middleware_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evn/eom_hradmin/internal/middleware"
	"github.com/evn/eom_hradmin/internal/services/auth"
)

var _ = Describe("CORS", func() {
	var (
		called  bool
		handler http.Handler
	)

	BeforeEach(func() {
		called = false
		handler = middleware.CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusTeapot)
		}))
	})

	It("answers OPTIONS itself with an empty body", func() {
		req := httptest.NewRequest(http.MethodOptions, "/anything/at/all", nil)
		req.Header.Set("Access-Control-Request-Headers", "Authorization, Content-Type")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.Len()).To(BeZero())
		Expect(called).To(BeFalse())
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(w.Header().Get("Access-Control-Allow-Headers")).To(Equal("Authorization, Content-Type"))
		Expect(w.Header().Get("Access-Control-Allow-Methods")).To(ContainSubstring("DELETE"))
	})

	It("passes other methods through with the headers set", func() {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(called).To(BeTrue())
		Expect(w.Code).To(Equal(http.StatusTeapot))
		Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("*"))
		Expect(w.Header().Get("Access-Control-Allow-Headers")).To(Equal("*"))
	})
})

var _ = Describe("admin chain", func() {
	var (
		jwtService *auth.JWTService
		router     *chi.Mux
		seenUserID int
	)

	BeforeEach(func() {
		jwtService = auth.NewJWTService("test-secret")
		seenUserID = 0

		router = chi.NewRouter()
		router.Use(jwtauth.Verifier(jwtService.JWTAuth()))
		router.Use(jwtauth.Authenticator(jwtService.JWTAuth()))
		router.Use(middleware.AddUserIDToContext())
		router.Use(middleware.AdminOnly())
		router.Get("/", func(w http.ResponseWriter, r *http.Request) {
			seenUserID, _ = middleware.GetUserIDFromContext(r.Context())
			w.WriteHeader(http.StatusNoContent)
		})
	})

	request := func(role string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if role != "" {
			token, err := jwtService.GenerateToken(42, "someone", role)
			Expect(err).NotTo(HaveOccurred())
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	DescribeTable("lets admin roles through",
		func(role string) {
			Expect(request(role).Code).To(Equal(http.StatusNoContent))
			Expect(seenUserID).To(Equal(42))
		},
		Entry("admin", "admin"),
		Entry("superadmin", "superadmin"),
	)

	It("forbids other roles", func() {
		Expect(request("courier").Code).To(Equal(http.StatusForbidden))
	})

	It("rejects anonymous requests", func() {
		Expect(request("").Code).To(Equal(http.StatusUnauthorized))
	})
})
