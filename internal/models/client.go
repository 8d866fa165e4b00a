package models

// Client хранит запись клиента, по которой настраивается мобильное приложение.
type Client struct {
	ClientID       string `json:"client_id" redis:"client_id"`
	ClientName     string `json:"client_name" redis:"client_name"`
	ClientEmail    string `json:"client_email" redis:"client_email"`
	CompanyName    string `json:"company_name" redis:"company_name"`
	LogoURL        string `json:"logo_url" redis:"logo_url"`
	Status         string `json:"status" redis:"status"`
	InstallationID string `json:"installation_id,omitempty" redis:"installation_id"`
	APIKey         string `json:"api_key,omitempty" redis:"api_key"`
	APISecret      string `json:"api_secret,omitempty" redis:"-"`
	APISecretHash  string `json:"-" redis:"api_secret_hash"`
	CreatedAt      string `json:"created_at,omitempty" redis:"created_at"`
	UpdatedAt      string `json:"updated_at,omitempty" redis:"updated_at"`
}

// ClientPatch содержит только переданные поля; nil означает, что поле не менялось.
type ClientPatch struct {
	ClientName  *string
	ClientEmail *string
	CompanyName *string
	LogoURL     *string
	Status      *string
}

const (
	ClientStatusActive   = "active"
	ClientStatusInactive = "inactive"
)
