package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/evn/eom_hradmin/internal/models"
)

var ErrClientNotFound = errors.New("client not found")

// ClientStore описывает хранилище клиентов. Логика диспетчера от реализации не зависит.
type ClientStore interface {
	Create(ctx context.Context, client *models.Client) error
	Get(ctx context.Context, clientID string) (*models.Client, error)
	Update(ctx context.Context, clientID string, patch models.ClientPatch) (*models.Client, error)
	Delete(ctx context.Context, clientID string) error
}

// MockClient возвращает запись, которой отвечают info и update по умолчанию.
func MockClient() models.Client {
	return models.Client{
		ClientID:       "CLI_DEMO0001",
		ClientName:     "Demo Client",
		ClientEmail:    "demo@example.com",
		CompanyName:    "Demo Company",
		LogoURL:        "https://example.com/logo.png",
		Status:         models.ClientStatusActive,
		InstallationID: "INST_DEMO0001",
		CreatedAt:      "2024-01-01T00:00:00Z",
	}
}

// MockClientStore ничего не сохраняет: create/delete проходят, update возвращает
// переданные поля поверх демо-записи.
type MockClientStore struct{}

func NewMockClientStore() *MockClientStore {
	return &MockClientStore{}
}

func (s *MockClientStore) Create(ctx context.Context, client *models.Client) error {
	return nil
}

func (s *MockClientStore) Get(ctx context.Context, clientID string) (*models.Client, error) {
	c := MockClient()
	if clientID != "" {
		c.ClientID = clientID
	}
	return &c, nil
}

func (s *MockClientStore) Update(ctx context.Context, clientID string, patch models.ClientPatch) (*models.Client, error) {
	c := MockClient()
	if clientID != "" {
		c.ClientID = clientID
	}
	applyPatch(&c, patch)
	c.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	return &c, nil
}

func (s *MockClientStore) Delete(ctx context.Context, clientID string) error {
	return nil
}

func applyPatch(c *models.Client, patch models.ClientPatch) {
	if patch.ClientName != nil {
		c.ClientName = *patch.ClientName
	}
	if patch.ClientEmail != nil {
		c.ClientEmail = *patch.ClientEmail
	}
	if patch.CompanyName != nil {
		c.CompanyName = *patch.CompanyName
	}
	if patch.LogoURL != nil {
		c.LogoURL = *patch.LogoURL
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
}

// RedisClientStore хранит клиентов в хешах client:<id>. Секрет хранится только как bcrypt-хеш.
type RedisClientStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClientStore(client *redis.Client, ttl time.Duration) *RedisClientStore {
	return &RedisClientStore{client: client, ttl: ttl}
}

func clientKey(clientID string) string {
	return "client:" + clientID
}

func (s *RedisClientStore) Create(ctx context.Context, client *models.Client) error {
	if client.APISecret != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(client.APISecret), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash api secret: %w", err)
		}
		client.APISecretHash = string(hash)
	}

	key := clientKey(client.ClientID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, client)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save client %s: %w", client.ClientID, err)
	}
	return nil
}

func (s *RedisClientStore) Get(ctx context.Context, clientID string) (*models.Client, error) {
	res := s.client.HGetAll(ctx, clientKey(clientID))
	fields, err := res.Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load client %s: %w", clientID, err)
	}
	if len(fields) == 0 {
		return nil, ErrClientNotFound
	}

	var c models.Client
	if err := res.Scan(&c); err != nil {
		return nil, fmt.Errorf("failed to decode client %s: %w", clientID, err)
	}
	return &c, nil
}

// Update накладывает изменения на сохранённую запись, а если её нет, то на демо-запись,
// как и MockClientStore. Результат сохраняется.
func (s *RedisClientStore) Update(ctx context.Context, clientID string, patch models.ClientPatch) (*models.Client, error) {
	current, err := s.Get(ctx, clientID)
	created := false
	if errors.Is(err, ErrClientNotFound) {
		mock := MockClient()
		mock.ClientID = clientID
		current = &mock
		created = true
	} else if err != nil {
		return nil, err
	}

	applyPatch(current, patch)
	current.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	key := clientKey(clientID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, current)
	// новая запись живёт столько же, сколько созданная через Create
	if created && s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to update client %s: %w", clientID, err)
	}
	return current, nil
}

// Delete идемпотентен: отсутствие ключа ошибкой не считается.
func (s *RedisClientStore) Delete(ctx context.Context, clientID string) error {
	if err := s.client.Del(ctx, clientKey(clientID)).Err(); err != nil {
		return fmt.Errorf("failed to delete client %s: %w", clientID, err)
	}
	return nil
}
