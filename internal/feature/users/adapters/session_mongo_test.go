package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestActiveSessionFilter(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got := activeSessionFilter("user-1", now)

	assert.Equal(t, bson.M{
		"user_id":    "user-1",
		"revoked_at": nil,
		"expires_at": bson.M{"$gt": now},
	}, got)
}

func TestSessionDocument_RoundTrip(t *testing.T) {
	t.Parallel()

	revoked := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	doc := sessionDocument{
		ID:        "s-1",
		UserID:    "user-1",
		CreatedAt: revoked.Add(-time.Hour),
		ExpiresAt: revoked.Add(time.Hour),
		RevokedAt: &revoked,
	}

	raw, err := bson.Marshal(doc)
	assert.NoError(t, err)

	var decoded sessionDocument
	assert.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, doc.toEntity(), decoded.toEntity())

	active := sessionDocument{ID: "s-2"}
	raw, err = bson.Marshal(active)
	assert.NoError(t, err)
	assert.NotContains(t, bson.Raw(raw).String(), "revoked_at", "active sessions must not store revoked_at")
}
