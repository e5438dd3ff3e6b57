package handler

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/gin-gonic/gin"

	"taskmanager/internal/feature/users/domain/entity"
	"taskmanager/internal/feature/users/usecase"
	jwtmw "taskmanager/internal/platform/jwt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// mockAccountUsecase is a function-field mock of AccountUsecase.
type mockAccountUsecase struct {
	RegisterFunc      func(ctx context.Context, in usecase.RegisterInput, meta entity.ClientMeta) (*entity.User, string, error)
	LoginFunc         func(ctx context.Context, email, password string, meta entity.ClientMeta) (*entity.User, string, error)
	LogoutFunc        func(ctx context.Context, session *entity.Session) error
	LogoutAllFunc     func(ctx context.Context, user *entity.User) error
	UpdateProfileFunc func(ctx context.Context, user *entity.User, patch entity.UserPatch) (*entity.User, error)
	DeleteAccountFunc func(ctx context.Context, user *entity.User) error
}

func (m *mockAccountUsecase) Register(ctx context.Context, in usecase.RegisterInput, meta entity.ClientMeta) (*entity.User, string, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, in, meta)
	}
	return nil, "", errors.New("RegisterFunc is not implemented")
}

func (m *mockAccountUsecase) Login(ctx context.Context, email, password string, meta entity.ClientMeta) (*entity.User, string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, meta)
	}
	return nil, "", usecase.ErrInvalidCredentials
}

func (m *mockAccountUsecase) Logout(ctx context.Context, session *entity.Session) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, session)
	}
	return nil
}

func (m *mockAccountUsecase) LogoutAll(ctx context.Context, user *entity.User) error {
	if m.LogoutAllFunc != nil {
		return m.LogoutAllFunc(ctx, user)
	}
	return nil
}

func (m *mockAccountUsecase) UpdateProfile(ctx context.Context, user *entity.User, patch entity.UserPatch) (*entity.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, user, patch)
	}
	return user, nil
}

func (m *mockAccountUsecase) DeleteAccount(ctx context.Context, user *entity.User) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, user)
	}
	return nil
}

// mockAvatarUsecase is a function-field mock of AvatarUsecase.
type mockAvatarUsecase struct {
	UploadFunc func(ctx context.Context, user *entity.User, filename string, data []byte) error
	DeleteFunc func(ctx context.Context, user *entity.User) error
	GetFunc    func(ctx context.Context, userID string) ([]byte, error)
}

func (m *mockAvatarUsecase) UploadAvatar(ctx context.Context, user *entity.User, filename string, data []byte) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, user, filename, data)
	}
	return nil
}

func (m *mockAvatarUsecase) DeleteAvatar(ctx context.Context, user *entity.User) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, user)
	}
	return nil
}

func (m *mockAvatarUsecase) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return nil, usecase.ErrAvatarNotFound
}

// withAuth stands in for jwtmw.AuthRequired and stores the given user and session.
func withAuth(user *entity.User, session *entity.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(jwtmw.ContextUser, user)
		}
		if session != nil {
			c.Set(jwtmw.ContextSession, session)
		}
		c.Next()
	}
}
