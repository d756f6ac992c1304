package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

const tasksCollection = "tasks"

type TaskRepository struct {
	coll *mongo.Collection
}

func NewTaskRepository(db *mongo.Database) *TaskRepository {
	return &TaskRepository{coll: db.Collection(tasksCollection)}
}

type taskDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Title      string             `bson:"title"`
	Status     string             `bson:"status"`
	Priority   string             `bson:"priority"`
	AssignedTo primitive.ObjectID `bson:"assigned_to"`
	DueDate    *time.Time         `bson:"due_date,omitempty"`
	CreatedAt  time.Time          `bson:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at"`
}

func (d *taskDocument) toDomain() *domain.Task {
	t := &domain.Task{
		ID:         d.ID.Hex(),
		Title:      d.Title,
		Status:     domain.TaskStatus(d.Status),
		Priority:   domain.TaskPriority(d.Priority),
		AssignedTo: d.AssignedTo.Hex(),
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
	if d.DueDate != nil {
		due := d.DueDate.UTC()
		t.DueDate = &due
	}
	return t
}

// scopedFilter builds the {_id, assigned_to} filter used by every
// ownership-restricted operation.
func scopedFilter(id, assignedTo string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	filter := bson.M{"_id": oid}
	if assignedTo != "" {
		owner, err := objectID(assignedTo)
		if err != nil {
			return nil, err
		}
		filter["assigned_to"] = owner
	}
	return filter, nil
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) error {
	assignee, err := objectID(task.AssignedTo)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := taskDocument{
		Title:      task.Title,
		Status:     string(task.Status),
		Priority:   string(task.Priority),
		AssignedTo: assignee,
		DueDate:    task.DueDate,
		CreatedAt:  task.CreatedAt,
		UpdatedAt:  task.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		task.ID = oid.Hex()
	}
	return nil
}

// List returns tasks newest first. assignedTo and status are optional filters.
func (r *TaskRepository) List(ctx context.Context, assignedTo, status string) ([]*domain.Task, error) {
	filter := bson.M{}
	if assignedTo != "" {
		owner, err := objectID(assignedTo)
		if err != nil {
			return nil, err
		}
		filter["assigned_to"] = owner
	}
	if status != "" {
		filter["status"] = status
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("find tasks: %w", err)
	}
	var docs []taskDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}

	tasks := make([]*domain.Task, 0, len(docs))
	for i := range docs {
		tasks = append(tasks, docs[i].toDomain())
	}
	return tasks, nil
}

// ToggleStatus flips the status in a single findOneAndUpdate using an
// aggregation-pipeline update, so concurrent toggles never lose a write.
func (r *TaskRepository) ToggleStatus(ctx context.Context, id, assignedTo string) (*domain.Task, error) {
	filter, err := scopedFilter(id, assignedTo)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "status", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$eq", Value: bson.A{"$status", string(domain.TaskCompleted)}}},
				string(domain.TaskPending),
				string(domain.TaskCompleted),
			}}}},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}

	var doc taskDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("toggle task: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *TaskRepository) Delete(ctx context.Context, id, assignedTo string) error {
	filter, err := scopedFilter(id, assignedTo)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "assigned_to", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("tasks indexes: %w", err)
	}
	return nil
}
