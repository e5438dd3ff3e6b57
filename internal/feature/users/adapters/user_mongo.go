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

const (
	usersCollection   = "users"
	avatarsCollection = "avatars"
)

type userDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	Age       int       `bson:"age"`
	HasAvatar bool      `bson:"has_avatar"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d *userDocument) toEntity() *entity.User {
	return &entity.User{
		ID:        d.ID,
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		Age:       d.Age,
		HasAvatar: d.HasAvatar,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type avatarDocument struct {
	UserID    string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// userMongo is a MongoDB implementation of the UserRepository interface.
type userMongo struct {
	users   *mongo.Collection
	avatars *mongo.Collection
}

var _ usecase.UserRepository = (*userMongo)(nil)

// NewUserMongo creates a userMongo backed by the users and avatars collections of db.
func NewUserMongo(db *mongo.Database) *userMongo {
	return &userMongo{
		users:   db.Collection(usersCollection),
		avatars: db.Collection(avatarsCollection),
	}
}

// EnsureIndexes creates the unique email index.
func (r *userMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users indexes: %w", err)
	}
	return nil
}

func (r *userMongo) Create(ctx context.Context, user *entity.User) error {
	if _, err := r.users.InsertOne(ctx, newUserDocument(user)); err != nil {
		return emailConflict(err)
	}
	return nil
}

func (r *userMongo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userMongo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userMongo) findOne(ctx context.Context, filter bson.M) (*entity.User, error) {
	var doc userDocument
	if err := r.users.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrUserNotFound
		}
		return nil, err
	}
	return doc.toEntity(), nil
}

func (r *userMongo) Update(ctx context.Context, user *entity.User) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": user.ID}, profileUpdate(user))
	if err != nil {
		return emailConflict(err)
	}
	if res.MatchedCount == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *userMongo) Delete(ctx context.Context, id string) error {
	if _, err := r.avatars.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	res, err := r.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func (r *userMongo) SaveAvatar(ctx context.Context, userID string, png []byte) error {
	if err := r.setHasAvatar(ctx, userID, true); err != nil {
		return err
	}
	_, err := r.avatars.UpdateOne(ctx,
		bson.M{"_id": userID},
		avatarUpsert(userID, png, time.Now()),
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (r *userMongo) DeleteAvatar(ctx context.Context, userID string) error {
	if _, err := r.avatars.DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
		return err
	}
	return r.setHasAvatar(ctx, userID, false)
}

func (r *userMongo) FindAvatar(ctx context.Context, userID string) ([]byte, error) {
	var doc avatarDocument
	if err := r.avatars.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrAvatarNotFound
		}
		return nil, err
	}
	return doc.Data, nil
}

func (r *userMongo) setHasAvatar(ctx context.Context, userID string, has bool) error {
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": userID}, hasAvatarUpdate(has, time.Now()))
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrUserNotFound
	}
	return nil
}

func newUserDocument(user *entity.User) userDocument {
	return userDocument{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		Age:       user.Age,
		HasAvatar: user.HasAvatar,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// emailConflict maps a unique index violation to ErrEmailAlreadyExists.
// email carries the only unique index on users besides _id.
func emailConflict(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return usecase.ErrEmailAlreadyExists
	}
	return err
}

// profileUpdate leaves has_avatar and created_at untouched; avatar state is
// owned by SaveAvatar and DeleteAvatar.
func profileUpdate(user *entity.User) bson.M {
	return bson.M{"$set": bson.M{
		"name":       user.Name,
		"email":      user.Email,
		"password":   user.Password,
		"age":        user.Age,
		"updated_at": user.UpdatedAt,
	}}
}

func hasAvatarUpdate(has bool, now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"has_avatar": has,
		"updated_at": now,
	}}
}

func avatarUpsert(userID string, png []byte, now time.Time) bson.M {
	return bson.M{"$set": avatarDocument{UserID: userID, Data: png, UpdatedAt: now}}
}
