package usecase

import (
	"context"
	"strings"
	"time"

	"taskmanager/internal/feature/users/domain/entity"
	jwtmw "taskmanager/internal/platform/jwt"
)

// mockUserRepository is a mock implementation of UserRepository.
type mockUserRepository struct {
	CreateFunc       func(user *entity.User) error
	FindByEmailFunc  func(email string) (*entity.User, error)
	FindByIDFunc     func(id string) (*entity.User, error)
	UpdateFunc       func(user *entity.User) error
	DeleteFunc       func(id string) error
	SaveAvatarFunc   func(userID string, png []byte) error
	DeleteAvatarFunc func(userID string) error
	FindAvatarFunc   func(userID string) ([]byte, error)
}

func (m *mockUserRepository) Create(_ context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(user)
	}
	return nil
}

func (m *mockUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(email)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) FindByID(_ context.Context, id string) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(id)
	}
	return nil, ErrUserNotFound
}

func (m *mockUserRepository) Update(_ context.Context, user *entity.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(user)
	}
	return nil
}

func (m *mockUserRepository) Delete(_ context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(id)
	}
	return nil
}

func (m *mockUserRepository) SaveAvatar(_ context.Context, userID string, png []byte) error {
	if m.SaveAvatarFunc != nil {
		return m.SaveAvatarFunc(userID, png)
	}
	return nil
}

func (m *mockUserRepository) DeleteAvatar(_ context.Context, userID string) error {
	if m.DeleteAvatarFunc != nil {
		return m.DeleteAvatarFunc(userID)
	}
	return nil
}

func (m *mockUserRepository) FindAvatar(_ context.Context, userID string) ([]byte, error) {
	if m.FindAvatarFunc != nil {
		return m.FindAvatarFunc(userID)
	}
	return nil, ErrAvatarNotFound
}

// mockSessionRepository is an in-memory SessionRepository.
type mockSessionRepository struct {
	sessions map[string]*entity.Session
	order    []string

	CreateErr error
	CountErr  error
}

func newMockSessionRepository() *mockSessionRepository {
	return &mockSessionRepository{sessions: map[string]*entity.Session{}}
}

func (m *mockSessionRepository) Create(_ context.Context, s *entity.Session) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.sessions[s.ID] = s
	m.order = append(m.order, s.ID)
	return nil
}

func (m *mockSessionRepository) FindByID(_ context.Context, id string) (*entity.Session, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *mockSessionRepository) active(userID string) []*entity.Session {
	var out []*entity.Session
	for _, id := range m.order {
		if s, ok := m.sessions[id]; ok && s.UserID == userID && s.IsValid() {
			out = append(out, s)
		}
	}
	return out
}

func (m *mockSessionRepository) Revoke(_ context.Context, id string) error {
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (m *mockSessionRepository) RevokeAllByUserID(ctx context.Context, userID string) error {
	for _, s := range m.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			now := time.Now()
			s.RevokedAt = &now
		}
	}
	return nil
}

func (m *mockSessionRepository) DeleteExpired(_ context.Context) (int64, error) {
	var n int64
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *mockSessionRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	if m.CountErr != nil {
		return 0, m.CountErr
	}
	active := m.active(userID)
	return int64(len(active)), nil
}

func (m *mockSessionRepository) DeleteOldestByUserID(ctx context.Context, userID string) error {
	active := m.active(userID)
	if len(active) > 0 {
		delete(m.sessions, active[0].ID)
	}
	return nil
}

func (m *mockSessionRepository) DeleteAllByUserID(_ context.Context, userID string) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

// mockTaskCleaner records the owner whose tasks were removed.
type mockTaskCleaner struct {
	DeleteByOwnerFunc func(ownerID string) (int64, error)
}

func (m *mockTaskCleaner) DeleteByOwner(_ context.Context, ownerID string) (int64, error) {
	if m.DeleteByOwnerFunc != nil {
		return m.DeleteByOwnerFunc(ownerID)
	}
	return 0, nil
}

// plainHasher prefixes instead of hashing to keep tests fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return ErrInvalidCredentials
	}
	return nil
}

// mockTokens implements TokenGenerator and TokenParser with readable tokens.
type mockTokens struct {
	GenerateErr error
	ParseFunc   func(token string) (*jwtmw.Claims, error)
}

func (m *mockTokens) GenerateToken(userID, sessionID string, _ time.Time) (string, error) {
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return userID + "|" + sessionID, nil
}

func (m *mockTokens) ParseToken(token string) (*jwtmw.Claims, error) {
	if m.ParseFunc != nil {
		return m.ParseFunc(token)
	}
	userID, sessionID, ok := strings.Cut(token, "|")
	if !ok {
		return nil, jwtmw.ErrInvalidToken
	}
	return &jwtmw.Claims{UserID: userID, SessionID: sessionID}, nil
}

// mockNotifier records sent emails.
type mockNotifier struct {
	welcomed  []string
	canceled  []string
	SendError error
}

func (m *mockNotifier) SendWelcome(_ context.Context, email, _ string) error {
	m.welcomed = append(m.welcomed, email)
	return m.SendError
}

func (m *mockNotifier) SendCancelation(_ context.Context, email, _ string) error {
	m.canceled = append(m.canceled, email)
	return m.SendError
}

type mockProcessor struct {
	ProcessFunc func(data []byte) ([]byte, error)
}

func (m *mockProcessor) Process(data []byte) ([]byte, error) {
	if m.ProcessFunc != nil {
		return m.ProcessFunc(data)
	}
	return []byte("png"), nil
}

type mockModerator struct {
	OK  bool
	Err error
}

func (m *mockModerator) Moderate(_ context.Context, _ []byte) (bool, error) {
	return m.OK, m.Err
}
