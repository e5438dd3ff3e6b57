package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"taskmanager/internal/feature/tasks/domain/entity"
	"taskmanager/internal/feature/tasks/usecase"
)

const tasksCollection = "tasks"

type taskDocument struct {
	ID          string    `bson:"_id"`
	Description string    `bson:"description"`
	Completed   bool      `bson:"completed"`
	OwnerID     string    `bson:"owner_id"`
	CreatedAt   time.Time `bson:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

func (d *taskDocument) toEntity() entity.Task {
	return entity.Task{
		ID:          d.ID,
		Description: d.Description,
		Completed:   d.Completed,
		OwnerID:     d.OwnerID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// taskMongo is a MongoDB implementation of the TaskRepository interface.
type taskMongo struct {
	coll *mongo.Collection
}

var _ usecase.TaskRepository = (*taskMongo)(nil)

// NewTaskMongo creates a taskMongo backed by the tasks collection of db.
func NewTaskMongo(db *mongo.Database) *taskMongo {
	return &taskMongo{coll: db.Collection(tasksCollection)}
}

// EnsureIndexes creates the owner lookup index.
func (r *taskMongo) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "completed", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create tasks indexes: %w", err)
	}
	return nil
}

func listQuery(ownerID string, f entity.ListFilter) (bson.M, *options.FindOptionsBuilder) {
	filter := bson.M{"owner_id": ownerID}
	if f.Completed != nil {
		filter["completed"] = *f.Completed
	}

	dir := 1
	if f.Desc {
		dir = -1
	}
	opts := options.Find().SetSort(bson.D{
		{Key: sortColumn(f.SortBy), Value: dir},
		{Key: "_id", Value: dir},
	})
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit)).SetSkip(int64(f.Offset()))
	}
	return filter, opts
}

func (r *taskMongo) Create(ctx context.Context, task *entity.Task) error {
	_, err := r.coll.InsertOne(ctx, taskDocument{
		ID:          task.ID,
		Description: task.Description,
		Completed:   task.Completed,
		OwnerID:     task.OwnerID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	})
	return err
}

func (r *taskMongo) List(ctx context.Context, ownerID string, f entity.ListFilter) ([]entity.Task, error) {
	filter, opts := listQuery(ownerID, f)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	tasks := make([]entity.Task, len(docs))
	for i := range docs {
		tasks[i] = docs[i].toEntity()
	}
	return tasks, nil
}

func (r *taskMongo) FindByID(ctx context.Context, ownerID, id string) (*entity.Task, error) {
	var doc taskDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "owner_id": ownerID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, usecase.ErrTaskNotFound
		}
		return nil, err
	}
	task := doc.toEntity()
	return &task, nil
}

func (r *taskMongo) Update(ctx context.Context, task *entity.Task) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": task.ID, "owner_id": task.OwnerID},
		bson.M{"$set": bson.M{
			"description": task.Description,
			"completed":   task.Completed,
			"updated_at":  task.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

func (r *taskMongo) Delete(ctx context.Context, ownerID, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "owner_id": ownerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return usecase.ErrTaskNotFound
	}
	return nil
}

func (r *taskMongo) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	res, err := r.coll.DeleteMany(ctx, bson.M{"owner_id": ownerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
