package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSession_Validity(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tests := []struct {
		name        string
		session     Session
		wantExpired bool
		wantRevoked bool
		wantValid   bool
	}{
		{"active", Session{ExpiresAt: now.Add(time.Hour)}, false, false, true},
		{"expired", Session{ExpiresAt: now.Add(-time.Hour)}, true, false, false},
		{"revoked", Session{ExpiresAt: now.Add(time.Hour), RevokedAt: &now}, false, true, false},
		{"expired and revoked", Session{ExpiresAt: now.Add(-time.Hour), RevokedAt: &now}, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.wantExpired, tt.session.IsExpired())
			assert.Equal(t, tt.wantRevoked, tt.session.IsRevoked())
			assert.Equal(t, tt.wantValid, tt.session.IsValid())
		})
	}
}

func TestUserPatch_IsEmpty(t *testing.T) {
	t.Parallel()

	name := "Ada"
	assert.True(t, UserPatch{}.IsEmpty())
	assert.False(t, UserPatch{Name: &name}.IsEmpty())
}
