package client

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/evn/eom_hradmin/internal/clientid"
	"github.com/evn/eom_hradmin/internal/models"
	"github.com/evn/eom_hradmin/internal/pkg/response"
	"github.com/evn/eom_hradmin/internal/repositories"
)

var requiredCreateFields = []string{"client_name", "client_email", "company_name"}

func (h *Handler) info(_ context.Context, req *request) (int, string, interface{}, error) {
	c := repositories.MockClient()
	c.APIKey = req.apiKey

	return http.StatusOK, "Client information retrieved successfully", map[string]interface{}{
		"client":    c,
		"api_key":   req.apiKey,
		"timestamp": response.Timestamp(),
	}, nil
}

func (h *Handler) create(ctx context.Context, req *request) (int, string, interface{}, error) {
	values := make(map[string]string, len(requiredCreateFields))
	for _, name := range requiredCreateFields {
		v, ok := req.field(name)
		if !ok || v == "" {
			return 0, "", nil, errMissingField(name)
		}
		values[name] = v
	}

	id, supplied := req.field("client_id")
	if supplied && id != "" {
		if err := validateClientID(id); err != nil {
			return 0, "", nil, err
		}
	} else {
		id = "CLI_" + strings.ToUpper(randomHex(4))
	}

	logoURL, _ := req.field("logo_url")
	now := time.Now().UTC().Format(time.RFC3339)

	c := &models.Client{
		ClientID:       id,
		ClientName:     values["client_name"],
		ClientEmail:    values["client_email"],
		CompanyName:    values["company_name"],
		LogoURL:        logoURL,
		Status:         models.ClientStatusActive,
		InstallationID: newInstallationID(),
		APIKey:         "API_" + randomHex(16),
		APISecret:      randomHex(32),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.store.Create(ctx, c); err != nil {
		return 0, "", nil, fmt.Errorf("create client %s: %w", id, err)
	}

	slog.InfoContext(ctx, "client created", "client_id", c.ClientID, "installation_id", c.InstallationID)
	return http.StatusCreated, "Client created successfully", c, nil
}

var patchableFields = []string{"client_name", "client_email", "company_name", "logo_url", "status"}

func (h *Handler) update(ctx context.Context, req *request) (int, string, interface{}, error) {
	id, supplied := req.field("client_id")
	if supplied && id != "" {
		if err := validateClientID(id); err != nil {
			return 0, "", nil, err
		}
	} else {
		id = repositories.MockClient().ClientID
	}

	var patch models.ClientPatch
	for _, name := range patchableFields {
		v, ok := req.field(name)
		if !ok {
			continue
		}
		switch name {
		case "client_name":
			patch.ClientName = &v
		case "client_email":
			patch.ClientEmail = &v
		case "company_name":
			patch.CompanyName = &v
		case "logo_url":
			patch.LogoURL = &v
		case "status":
			patch.Status = &v
		}
	}

	c, err := h.store.Update(ctx, id, patch)
	if err != nil {
		return 0, "", nil, fmt.Errorf("update client %s: %w", id, err)
	}

	return http.StatusOK, "Client updated successfully", map[string]interface{}{
		"client":         c,
		"updated_fields": updatedFields(req.body),
	}, nil
}

func (h *Handler) remove(ctx context.Context, req *request) (int, string, interface{}, error) {
	id, ok := req.field("client_id")
	if !ok || id == "" {
		if values := req.query["client_id"]; len(values) > 0 {
			id = strings.TrimSpace(values[0])
		}
	}

	if id != "" {
		if err := h.store.Delete(ctx, id); err != nil {
			slog.WarnContext(ctx, "client delete failed, reporting success", "client_id", id, "error", err)
		}
	}

	data := map[string]interface{}{"deleted": true}
	if id != "" {
		data["client_id"] = id
	}
	return http.StatusOK, "Client deleted successfully", data, nil
}

func validateClientID(id string) *APIError {
	res := clientid.Validate(id)
	if res.Valid {
		return nil
	}
	return &APIError{
		Status:   http.StatusBadRequest,
		Code:     CodeInvalidClientID,
		Message:  "Invalid client ID: " + strings.Join(res.Errors, "; "),
		Data:     map[string]interface{}{"client_id": id, "errors": res.Errors},
		Criteria: res.Criteria,
	}
}

// updatedFields возвращает ключи входного тела, кроме служебного action.
func updatedFields(body map[string]interface{}) []string {
	fields := make([]string, 0, len(body))
	for k := range body {
		if k == "action" {
			continue
		}
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

func newInstallationID() string {
	return "INST_" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

func randomHex(n int) string {
	b := make([]byte, n)
	rand.Read(b) // с Go 1.24 не возвращает ошибку
	return hex.EncodeToString(b)
}
