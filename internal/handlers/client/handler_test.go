package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/evn/eom_hradmin/internal/handlers/client"
	"github.com/evn/eom_hradmin/internal/models"
	"github.com/evn/eom_hradmin/internal/repositories"
	"github.com/evn/eom_hradmin/internal/services/auth"
)

const validKey = "demo_key_123"

type recordingStore struct {
	repositories.MockClientStore
	created   []*models.Client
	deleted   []string
	createErr error
	deleteErr error
}

func (s *recordingStore) Create(ctx context.Context, c *models.Client) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, c)
	return nil
}

func (s *recordingStore) Delete(ctx context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.deleteErr
}

type failingVerifier struct{}

func (failingVerifier) Verify(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

type envelope struct {
	Success   bool                   `json:"success"`
	Message   string                 `json:"message"`
	Data      map[string]interface{} `json:"data"`
	Error     string                 `json:"error"`
	Criteria  map[string]interface{} `json:"criteria"`
	Timestamp string                 `json:"timestamp"`
}

var _ = Describe("Handler", func() {
	var (
		store   *recordingStore
		handler http.Handler
	)

	BeforeEach(func() {
		store = &recordingStore{}
		handler = client.NewHandler(auth.NewStaticKeyVerifier([]string{validKey, "test_key_456"}), store)
	})

	do := func(method, target string, body interface{}, bearer string) (*httptest.ResponseRecorder, envelope) {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, target, &buf)
		req.Header.Set("Content-Type", "application/json")
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		var env envelope
		if w.Body.Len() > 0 {
			Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
		}
		return w, env
	}

	Describe("OPTIONS", func() {
		It("answers 200 with an empty body regardless of parameters", func() {
			w, _ := do(http.MethodOptions, "/api/client?action=unknown", nil, "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.Len()).To(BeZero())
		})
	})

	Describe("authentication", func() {
		It("rejects requests without any key", func() {
			for _, action := range []string{"info", "create", "update", "delete", "unknown"} {
				w, env := do(http.MethodPost, "/api/client?action="+action, nil, "")
				Expect(w.Code).To(Equal(http.StatusUnauthorized), action)
				Expect(env.Success).To(BeFalse())
				Expect(env.Error).To(Equal(client.CodeMissingAPIKey))
			}
		})

		It("rejects unknown keys", func() {
			w, env := do(http.MethodGet, "/api/client?action=info", nil, "nope")
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(env.Error).To(Equal(client.CodeInvalidAPIKey))
		})

		It("accepts the key from the query string", func() {
			w, env := do(http.MethodGet, "/api/client?action=info&api_key=test_key_456", nil, "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Data["api_key"]).To(Equal("test_key_456"))
		})

		It("prefers the bearer header over the query string", func() {
			w, env := do(http.MethodGet, "/api/client?action=info&api_key=nope", nil, validKey)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Data["api_key"]).To(Equal(validKey))
		})

		It("fails closed when the verifier errors", func() {
			handler = client.NewHandler(failingVerifier{}, store)
			w, env := do(http.MethodGet, "/api/client?action=info", nil, validKey)
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
			Expect(env.Error).To(Equal(client.CodeInvalidAPIKey))
		})
	})

	Describe("dispatch", func() {
		It("rejects unknown actions", func() {
			w, env := do(http.MethodGet, "/api/client?action=unknown", nil, validKey)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Error).To(Equal(client.CodeInvalidAction))
		})

		It("rejects a missing action", func() {
			w, env := do(http.MethodGet, "/api/client", nil, validKey)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Error).To(Equal(client.CodeInvalidAction))
		})

		DescribeTable("matches action names case-sensitively",
			func(action string) {
				w, env := do(http.MethodGet, "/api/client?action="+action, nil, validKey)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
				Expect(env.Error).To(Equal(client.CodeInvalidAction))
			},
			Entry("INFO", "INFO"),
			Entry("Create", "Create"),
			Entry("Delete", "Delete"),
		)

		It("matches body actions case-sensitively too", func() {
			w, env := do(http.MethodPost, "/api/client", map[string]string{"action": "UPDATE"}, validKey)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Error).To(Equal(client.CodeInvalidAction))
		})

		It("reads the action from the body when the query has none", func() {
			w, env := do(http.MethodPost, "/api/client", map[string]string{"action": "delete"}, validKey)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Success).To(BeTrue())
		})
	})

	Describe("info", func() {
		It("returns the mock client merged with the key and a timestamp", func() {
			w, env := do(http.MethodGet, "/api/client?action=info", nil, validKey)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Success).To(BeTrue())

			c := env.Data["client"].(map[string]interface{})
			Expect(c["client_id"]).To(Equal(repositories.MockClient().ClientID))
			Expect(c["api_key"]).To(Equal(validKey))

			_, err := time.Parse(time.RFC3339, env.Data["timestamp"].(string))
			Expect(err).NotTo(HaveOccurred())
			_, err = time.Parse(time.RFC3339, env.Timestamp)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Describe("create", func() {
		validBody := func() map[string]interface{} {
			return map[string]interface{}{
				"client_name":  "Acme",
				"client_email": "ops@acme.test",
				"company_name": "Acme LLC",
			}
		}

		It("creates a client with generated identifiers", func() {
			w, env := do(http.MethodPost, "/api/client?action=create", validBody(), validKey)
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(env.Success).To(BeTrue())
			Expect(env.Data["client_id"]).To(HavePrefix("CLI_"))
			Expect(env.Data["installation_id"]).To(HavePrefix("INST_"))
			Expect(env.Data["api_key"]).To(HavePrefix("API_"))
			Expect(env.Data["api_secret"]).To(HaveLen(64))
			Expect(env.Data["status"]).To(Equal("active"))
			Expect(store.created).To(HaveLen(1))
		})

		It("generates different identifiers per request", func() {
			_, first := do(http.MethodPost, "/api/client?action=create", validBody(), validKey)
			_, second := do(http.MethodPost, "/api/client?action=create", validBody(), validKey)
			Expect(first.Data["client_id"]).NotTo(Equal(second.Data["client_id"]))
			Expect(first.Data["api_secret"]).NotTo(Equal(second.Data["api_secret"]))
		})

		DescribeTable("reports the first missing field",
			func(drop []string, expected string) {
				body := validBody()
				for _, f := range drop {
					delete(body, f)
				}
				w, env := do(http.MethodPost, "/api/client?action=create", body, validKey)
				Expect(w.Code).To(Equal(http.StatusBadRequest))
				Expect(env.Error).To(Equal(client.CodeMissingField))
				Expect(env.Message).To(ContainSubstring(expected))
				Expect(env.Data["field"]).To(Equal(expected))
			},
			Entry("client_name", []string{"client_name"}, "client_name"),
			Entry("client_email", []string{"client_email"}, "client_email"),
			Entry("company_name", []string{"company_name"}, "company_name"),
			Entry("all missing", []string{"client_name", "client_email", "company_name"}, "client_name"),
		)

		It("treats blank values as missing", func() {
			body := validBody()
			body["client_email"] = "   "
			_, env := do(http.MethodPost, "/api/client?action=create", body, validKey)
			Expect(env.Error).To(Equal(client.CodeMissingField))
			Expect(env.Data["field"]).To(Equal("client_email"))
		})

		It("keeps a valid supplied client_id", func() {
			body := validBody()
			body["client_id"] = "acme_01"
			w, env := do(http.MethodPost, "/api/client?action=create", body, validKey)
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(env.Data["client_id"]).To(Equal("acme_01"))
		})

		It("rejects an invalid supplied client_id with criteria", func() {
			body := validBody()
			body["client_id"] = "CLI_abc"
			w, env := do(http.MethodPost, "/api/client?action=create", body, validKey)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Error).To(Equal(client.CodeInvalidClientID))
			Expect(env.Criteria).To(HaveKeyWithValue("max_length", BeNumerically("==", 10)))
			Expect(env.Criteria).To(HaveKeyWithValue("min_length", BeNumerically("==", 3)))
			Expect(env.Criteria).To(HaveKey("reserved_prefixes"))
			Expect(env.Data["errors"]).To(ConsistOf(ContainSubstring("reserved prefix")))
			Expect(store.created).To(BeEmpty())
		})

		It("checks required fields before the identifier", func() {
			w, env := do(http.MethodPost, "/api/client?action=create", map[string]string{"client_id": "x"}, validKey)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Error).To(Equal(client.CodeMissingField))
		})

		It("returns 500 when the store fails", func() {
			store.createErr = errors.New("boom")
			w, env := do(http.MethodPost, "/api/client?action=create", validBody(), validKey)
			Expect(w.Code).To(Equal(http.StatusInternalServerError))
			Expect(env.Success).To(BeFalse())
		})

		It("treats a malformed body as empty", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/client?action=create", bytes.NewBufferString("{not json"))
			req.Header.Set("Authorization", "Bearer "+validKey)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			var env envelope
			Expect(json.Unmarshal(w.Body.Bytes(), &env)).To(Succeed())
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Error).To(Equal(client.CodeMissingField))
		})
	})

	Describe("update", func() {
		It("echoes supplied fields over mock defaults", func() {
			body := map[string]interface{}{"client_id": "acme_01", "company_name": "New Co"}
			w, env := do(http.MethodPost, "/api/client?action=update", body, validKey)
			Expect(w.Code).To(Equal(http.StatusOK))

			c := env.Data["client"].(map[string]interface{})
			Expect(c["client_id"]).To(Equal("acme_01"))
			Expect(c["company_name"]).To(Equal("New Co"))
			Expect(c["client_name"]).To(Equal(repositories.MockClient().ClientName))
			Expect(env.Data["updated_fields"]).To(ConsistOf("client_id", "company_name"))
		})

		It("does not list the action as an updated field", func() {
			body := map[string]interface{}{"action": "update", "status": "inactive"}
			_, env := do(http.MethodPost, "/api/client", body, validKey)
			Expect(env.Data["updated_fields"]).To(ConsistOf("status"))
		})

		It("validates a supplied client_id", func() {
			w, env := do(http.MethodPost, "/api/client?action=update", map[string]string{"client_id": "AB"}, validKey)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(env.Error).To(Equal(client.CodeInvalidClientID))
			Expect(env.Criteria).NotTo(BeEmpty())
		})

		It("succeeds with an empty body", func() {
			w, env := do(http.MethodPost, "/api/client?action=update", nil, validKey)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Data["updated_fields"]).To(BeEmpty())
		})
	})

	Describe("delete", func() {
		It("always succeeds", func() {
			w, env := do(http.MethodPost, "/api/client?action=delete", nil, validKey)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Success).To(BeTrue())
			Expect(env.Message).To(ContainSubstring("deleted"))
			Expect(store.deleted).To(BeEmpty())
		})

		It("succeeds even when the store reports an error", func() {
			store.deleteErr = errors.New("gone")
			w, env := do(http.MethodDelete, "/api/client?action=delete&client_id=acme_01", nil, validKey)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(env.Data["client_id"]).To(Equal("acme_01"))
			Expect(store.deleted).To(ConsistOf("acme_01"))
		})
	})
})
