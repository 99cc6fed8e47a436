package service

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/mambagroup/inventory-backend/internal/mail"
	"github.com/mambagroup/inventory-backend/internal/models"
	"github.com/mambagroup/inventory-backend/internal/repository"
	"github.com/mambagroup/inventory-backend/internal/utils"
)

// MockUserRepository is a map-backed UserRepository
type MockUserRepository struct {
	mu           sync.Mutex
	users        map[string]*models.User
	usersByEmail map[string]*models.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:        make(map[string]*models.User),
		usersByEmail: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.usersByEmail[user.Email]; ok {
		return utils.NewDuplicateError("User", "email", user.Email)
	}
	stored := *user
	m.users[user.ID] = &stored
	m.usersByEmail[user.Email] = &stored
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, utils.NewNotFoundError("User", id)
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.usersByEmail[email]
	if !ok {
		return nil, utils.NewNotFoundError("User", email)
	}
	copied := *user
	return &copied, nil
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.users[user.ID]
	if !ok {
		return utils.NewNotFoundError("User", user.ID)
	}
	stored.Name = user.Name
	stored.Photo = user.Photo
	stored.Phone = user.Phone
	stored.Bio = user.Bio
	return nil
}

func (m *MockUserRepository) ChangePassword(ctx context.Context, id string, passwordHash, salt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return utils.NewNotFoundError("User", id)
	}
	user.PasswordHash = passwordHash
	user.Salt = salt
	return nil
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.usersByEmail[email]
	return ok, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return int64(len(m.users)), nil
}

// Delete removes a user directly, standing in for an out-of-band deletion
func (m *MockUserRepository) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user, ok := m.users[id]; ok {
		delete(m.usersByEmail, user.Email)
		delete(m.users, id)
	}
}

// MockPasswordResetRepository is a map-backed PasswordResetRepository keyed by token hash
type MockPasswordResetRepository struct {
	mu     sync.Mutex
	tokens map[string]*models.PasswordResetToken
}

func NewMockPasswordResetRepository() *MockPasswordResetRepository {
	return &MockPasswordResetRepository{tokens: make(map[string]*models.PasswordResetToken)}
}

func (m *MockPasswordResetRepository) Create(ctx context.Context, userID, tokenHash string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	m.tokens[tokenHash] = &models.PasswordResetToken{
		TokenHash: tokenHash,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	return nil
}

func (m *MockPasswordResetRepository) GetByUserID(ctx context.Context, userID string) (*models.PasswordResetToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, token := range m.tokens {
		if token.UserID == userID {
			copied := *token
			return &copied, nil
		}
	}
	return nil, repository.ErrTokenNotFound
}

func (m *MockPasswordResetRepository) GetUserIDByTokenHash(ctx context.Context, tokenHash string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.tokens[tokenHash]
	if !ok || token.IsExpired(time.Now()) {
		return "", repository.ErrTokenNotFound
	}
	return token.UserID, nil
}

func (m *MockPasswordResetRepository) Delete(ctx context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.tokens, tokenHash)
	return nil
}

func (m *MockPasswordResetRepository) DeleteByUserID(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for hash, token := range m.tokens {
		if token.UserID == userID {
			delete(m.tokens, hash)
		}
	}
	return nil
}

func (m *MockPasswordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	now := time.Now()
	for hash, token := range m.tokens {
		if token.IsExpired(now) {
			delete(m.tokens, hash)
			deleted++
		}
	}
	return deleted, nil
}

// countForUser returns how many tokens are stored for userID
func (m *MockPasswordResetRepository) countForUser(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	count := 0
	for _, token := range m.tokens {
		if token.UserID == userID {
			count++
		}
	}
	return count
}

// expireAll moves every stored token into the past
func (m *MockPasswordResetRepository) expireAll() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, token := range m.tokens {
		token.ExpiresAt = time.Now().Add(-time.Minute)
	}
}

// MockProductRepository is a map-backed ProductRepository
type MockProductRepository struct {
	mu        sync.Mutex
	products  map[string]*models.Product
	createErr error
	updateErr error
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{products: make(map[string]*models.Product)}
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, ok := m.products[id]
	if !ok {
		return nil, utils.NewNotFoundError("Product", id)
	}
	copied := *product
	return &copied, nil
}

func (m *MockProductRepository) ListByUser(ctx context.Context, userID string) ([]*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	products := make([]*models.Product, 0)
	for _, product := range m.products {
		if product.UserID == userID {
			copied := *product
			products = append(products, &copied)
		}
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[product.ID]; !ok {
		return utils.NewNotFoundError("Product", product.ID)
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return utils.NewNotFoundError("Product", id)
	}
	delete(m.products, id)
	return nil
}

// recordingMailer keeps every message it was asked to send
type recordingMailer struct {
	mu       sync.Mutex
	messages []mail.Message
	err      error
}

func (m *recordingMailer) Send(ctx context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.messages = append(m.messages, msg)
	return m.err
}

func (m *recordingMailer) last() (mail.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.messages) == 0 {
		return mail.Message{}, false
	}
	return m.messages[len(m.messages)-1], true
}

// fakeImageStore keeps uploaded objects in memory
type fakeImageStore struct {
	mu        sync.Mutex
	objects   map[string]string
	putErr    error
	deleteErr error
	deleted   []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{objects: make(map[string]string)}
}

func (f *fakeImageStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.objects[key] = string(data)
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.deleted = append(f.deleted, key)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.objects[key]; !ok {
		return errors.New("no such object")
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeImageStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.objects[key]
	return ok
}
