package adapters

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"taskmanager/internal/feature/users/domain/entity"
	"taskmanager/internal/feature/users/usecase"
)

func TestEmailConflict(t *testing.T) {
	t.Parallel()

	other := errors.New("connection reset")
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "duplicate key write error",
			err:  mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}}},
			want: usecase.ErrEmailAlreadyExists,
		},
		{
			name: "duplicate key command error",
			err:  mongo.CommandError{Code: 11000, Message: "E11000 duplicate key error"},
			want: usecase.ErrEmailAlreadyExists,
		},
		{
			name: "wrapped duplicate key",
			err:  fmt.Errorf("update user: %w", mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}),
			want: usecase.ErrEmailAlreadyExists,
		},
		{
			name: "other write error passes through",
			err:  mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 121, Message: "document failed validation"}}},
		},
		{
			name: "plain error passes through",
			err:  other,
			want: other,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := emailConflict(tt.err)
			if tt.want == nil {
				assert.Equal(t, tt.err, got)
				assert.NotErrorIs(t, got, usecase.ErrEmailAlreadyExists)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestProfileUpdate(t *testing.T) {
	t.Parallel()

	updated := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	user := &entity.User{
		ID:        "user-1",
		Name:      "Ann",
		Email:     "ann@example.com",
		Password:  "hash",
		Age:       31,
		HasAvatar: true,
		CreatedAt: updated.Add(-time.Hour),
		UpdatedAt: updated,
	}

	got := profileUpdate(user)

	assert.Equal(t, bson.M{"$set": bson.M{
		"name":       "Ann",
		"email":      "ann@example.com",
		"password":   "hash",
		"age":        31,
		"updated_at": updated,
	}}, got)
	set, ok := got["$set"].(bson.M)
	require.True(t, ok)
	assert.NotContains(t, set, "has_avatar", "profile edits must not clear the avatar flag")
	assert.NotContains(t, set, "created_at")
	assert.NotContains(t, set, "_id")
}

func TestHasAvatarUpdate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	for _, has := range []bool{true, false} {
		assert.Equal(t, bson.M{"$set": bson.M{
			"has_avatar": has,
			"updated_at": now,
		}}, hasAvatarUpdate(has, now))
	}
}

func TestAvatarUpsert(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := avatarUpsert("user-1", []byte{0x89, 'P', 'N', 'G'}, now)

	raw, err := bson.Marshal(got)
	require.NoError(t, err)

	var decoded struct {
		Set avatarDocument `bson:"$set"`
	}
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, "user-1", decoded.Set.UserID)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, decoded.Set.Data)
	assert.True(t, now.Equal(decoded.Set.UpdatedAt))
}

func TestNewUserDocument(t *testing.T) {
	t.Parallel()

	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	user := &entity.User{
		ID:        "user-1",
		Name:      "Ann",
		Email:     "ann@example.com",
		Password:  "hash",
		Age:       31,
		HasAvatar: false,
		CreatedAt: created,
		UpdatedAt: created,
	}

	doc := newUserDocument(user)

	assert.Equal(t, user, doc.toEntity())
}
