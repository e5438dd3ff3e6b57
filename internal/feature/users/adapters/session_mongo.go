package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"taskmanager/internal/feature/users/domain/entity"
	"taskmanager/internal/feature/users/usecase"
)

const sessionsCollection = "sessions"

type sessionDocument struct {
	ID        string     `bson:"_id"`
	UserID    string     `bson:"user_id"`
	UserAgent string     `bson:"user_agent"`
	IPAddress string     `bson:"ip_address"`
	CreatedAt time.Time  `bson:"created_at"`
	ExpiresAt time.Time  `bson:"expires_at"`
	RevokedAt *time.Time `bson:"revoked_at,omitempty"`
}

func (d *sessionDocument) toEntity() *entity.Session {
	return &entity.Session{
		ID:        d.ID,
		UserID:    d.UserID,
		UserAgent: d.UserAgent,
		IPAddress: d.IPAddress,
		CreatedAt: d.CreatedAt,
		ExpiresAt: d.ExpiresAt,
		RevokedAt: d.RevokedAt,
	}
}

// sessionMongo is a MongoDB implementation of the SessionRepository interface.
type sessionMongo struct {
	coll *mongo.Collection
}

var _ usecase.SessionRepository = (*sessionMongo)(nil)

// NewSessionMongo creates a sessionMongo backed by the sessions collection of db.
func NewSessionMongo(db *mongo.Database) *sessionMongo {
	return &sessionMongo{coll: db.Collection(sessionsCollection)}
}

// EnsureIndexes creates the user_id lookup index and a TTL index that lets MongoDB drop expired sessions.
func (r *sessionMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
	})
	if err != nil {
		return fmt.Errorf("create sessions indexes: %w", err)
	}
	return nil
}

// activeSessionFilter matches the user's unrevoked sessions that expire after now.
func activeSessionFilter(userID string, now time.Time) bson.M {
	return bson.M{
		"user_id":    userID,
		"revoked_at": nil,
		"expires_at": bson.M{"$gt": now},
	}
}

func (r *sessionMongo) Create(ctx context.Context, session *entity.Session) error {
	_, err := r.coll.InsertOne(ctx, sessionDocument{
		ID:        session.ID,
		UserID:    session.UserID,
		UserAgent: session.UserAgent,
		IPAddress: session.IPAddress,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
		RevokedAt: session.RevokedAt,
	})
	return err
}

func (r *sessionMongo) FindByID(ctx context.Context, id string) (*entity.Session, error) {
	var doc sessionDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrSessionNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *sessionMongo) Revoke(ctx context.Context, id string) error {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"revoked_at": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrSessionNotFound
	}
	return nil
}

func (r *sessionMongo) RevokeAllByUserID(ctx context.Context, userID string) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "revoked_at": nil},
		bson.M{"$set": bson.M{"revoked_at": time.Now()}},
	)
	return err
}

func (r *sessionMongo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lt": time.Now()}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *sessionMongo) CountByUserID(ctx context.Context, userID string) (int64, error) {
	return r.coll.CountDocuments(ctx, activeSessionFilter(userID, time.Now()))
}

func (r *sessionMongo) DeleteOldestByUserID(ctx context.Context, userID string) error {
	err := r.coll.FindOneAndDelete(ctx, activeSessionFilter(userID, time.Now()),
		options.FindOneAndDelete().SetSort(bson.D{{Key: "created_at", Value: 1}})).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil
	}
	return err
}

func (r *sessionMongo) DeleteAllByUserID(ctx context.Context, userID string) error {
	_, err := r.coll.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}
