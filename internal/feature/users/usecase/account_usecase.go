package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/feature/users/domain/entity"
)

// dummyHash is compared against when the email is unknown so Login takes the same time either way.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// RegisterInput is the data needed to create an account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

// AccountConfig tunes token issuance.
type AccountConfig struct {
	TokenTTL           time.Duration
	MaxSessionsPerUser int
}

// accountUsecase implements registration, authentication and profile management.
type accountUsecase struct {
	users    UserRepository
	sessions SessionRepository
	tasks    TaskCleaner
	hasher   PasswordHasher
	tokens   TokenGenerator
	parser   TokenParser
	notifier Notifier
	cfg      AccountConfig
	now      func() time.Time
}

// NewAccountUsecase creates an accountUsecase.
func NewAccountUsecase(
	users UserRepository,
	sessions SessionRepository,
	tasks TaskCleaner,
	hasher PasswordHasher,
	tokens TokenGenerator,
	parser TokenParser,
	notifier Notifier,
	cfg AccountConfig,
) *accountUsecase {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = 7 * 24 * time.Hour
	}
	if cfg.MaxSessionsPerUser <= 0 {
		cfg.MaxSessionsPerUser = 10
	}
	return &accountUsecase{
		users:    users,
		sessions: sessions,
		tasks:    tasks,
		hasher:   hasher,
		tokens:   tokens,
		parser:   parser,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Register validates and stores a new user, sends the welcome email and issues a token.
func (u *accountUsecase) Register(ctx context.Context, in RegisterInput, meta entity.ClientMeta) (*entity.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	pw := strings.TrimSpace(in.Password)

	if err := firstError(validateName(name), validateEmail(email), validatePassword(pw), validateAge(in.Age)); err != nil {
		return nil, "", err
	}

	hashed, err := u.hasher.Hash(pw)
	if err != nil {
		return nil, "", err
	}

	now := u.now()
	user := &entity.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		Age:       in.Age,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	if err := u.notifier.SendWelcome(ctx, user.Email, user.Name); err != nil {
		slog.Warn("welcome email not queued", "error", err, "user_id", user.ID)
	}

	token, err := u.issueToken(ctx, user, meta)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the credentials and issues a new token.
// A bcrypt comparison runs even for unknown emails.
func (u *accountUsecase) Login(ctx context.Context, email, password string, meta entity.ClientMeta) (*entity.User, string, error) {
	user, err := u.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, "", err
	}

	passwordHash := dummyHash
	if err == nil {
		passwordHash = user.Password
	}
	compareErr := u.hasher.Compare(passwordHash, strings.TrimSpace(password))

	if err != nil || compareErr != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := u.issueToken(ctx, user, meta)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a bearer token to its user and live session.
func (u *accountUsecase) Authenticate(ctx context.Context, token string) (*entity.User, *entity.Session, error) {
	claims, err := u.parser.ParseToken(token)
	if err != nil {
		return nil, nil, err
	}

	session, err := u.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.UserID != claims.UserID {
		return nil, nil, ErrSessionNotFound
	}
	if session.IsRevoked() {
		return nil, nil, ErrSessionRevoked
	}
	if session.IsExpired() {
		return nil, nil, ErrSessionExpired
	}

	user, err := u.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// Logout revokes the session of the presented token.
func (u *accountUsecase) Logout(ctx context.Context, session *entity.Session) error {
	return u.sessions.Revoke(ctx, session.ID)
}

// LogoutAll revokes every session of the user.
func (u *accountUsecase) LogoutAll(ctx context.Context, user *entity.User) error {
	return u.sessions.RevokeAllByUserID(ctx, user.ID)
}

// UpdateProfile applies a whitelisted patch and returns the stored user.
func (u *accountUsecase) UpdateProfile(ctx context.Context, user *entity.User, patch entity.UserPatch) (*entity.User, error) {
	updated := *user
	if patch.IsEmpty() {
		return &updated, nil
	}

	var errs []error
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
		errs = append(errs, validateName(updated.Name))
	}
	if patch.Email != nil {
		updated.Email = normalizeEmail(*patch.Email)
		errs = append(errs, validateEmail(updated.Email))
	}
	var newPassword string
	if patch.Password != nil {
		newPassword = strings.TrimSpace(*patch.Password)
		errs = append(errs, validatePassword(newPassword))
	}
	if patch.Age != nil {
		updated.Age = *patch.Age
		errs = append(errs, validateAge(updated.Age))
	}
	if err := firstError(errs...); err != nil {
		return nil, err
	}

	if patch.Password != nil {
		hashed, err := u.hasher.Hash(newPassword)
		if err != nil {
			return nil, err
		}
		updated.Password = hashed
	}
	updated.UpdatedAt = u.now()

	if err := u.users.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteAccount removes the user's tasks, sessions and the user, then sends the cancelation email.
func (u *accountUsecase) DeleteAccount(ctx context.Context, user *entity.User) error {
	n, err := u.tasks.DeleteByOwner(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("delete tasks: %w", err)
	}
	if err := u.sessions.DeleteAllByUserID(ctx, user.ID); err != nil {
		return fmt.Errorf("delete sessions: %w", err)
	}
	if err := u.users.Delete(ctx, user.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	slog.Info("account deleted", "user_id", user.ID, "tasks_deleted", n)

	if err := u.notifier.SendCancelation(ctx, user.Email, user.Name); err != nil {
		slog.Warn("cancelation email not queued", "error", err, "user_id", user.ID)
	}
	return nil
}

// PurgeExpiredSessions deletes sessions past their expiry.
func (u *accountUsecase) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	return u.sessions.DeleteExpired(ctx)
}

// issueToken creates a session, evicting the oldest when the user is at the cap, and signs its token.
func (u *accountUsecase) issueToken(ctx context.Context, user *entity.User, meta entity.ClientMeta) (string, error) {
	count, err := u.sessions.CountByUserID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("count sessions: %w", err)
	}
	for ; count >= int64(u.cfg.MaxSessionsPerUser); count-- {
		if err := u.sessions.DeleteOldestByUserID(ctx, user.ID); err != nil {
			return "", fmt.Errorf("evict session: %w", err)
		}
	}

	now := u.now()
	session := &entity.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.cfg.TokenTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	token, err := u.tokens.GenerateToken(user.ID, session.ID, session.ExpiresAt)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}
