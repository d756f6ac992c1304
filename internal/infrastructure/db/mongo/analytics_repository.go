package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/relaycrm/crm-api/internal/core/domain"
)

// AnalyticsRepository runs read-only aggregations over leads and tasks.
type AnalyticsRepository struct {
	leads *mongo.Collection
	tasks *mongo.Collection
}

func NewAnalyticsRepository(db *mongo.Database) *AnalyticsRepository {
	return &AnalyticsRepository{
		leads: db.Collection(leadsCollection),
		tasks: db.Collection(tasksCollection),
	}
}

var groupableLeadFields = map[string]bool{"status": true, "source": true}

type bucketDocument struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}

func (r *AnalyticsRepository) CountLeads(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.leads.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

// LeadsGroupedBy counts leads per distinct value of field (status or source).
func (r *AnalyticsRepository) LeadsGroupedBy(ctx context.Context, field string) ([]domain.CountBucket, error) {
	if !groupableLeadFields[field] {
		return nil, fmt.Errorf("leads cannot be grouped by %q", field)
	}
	buckets, err := r.group(ctx, r.leads, field)
	if err != nil {
		return nil, fmt.Errorf("group leads by %s: %w", field, err)
	}
	return buckets, nil
}

func (r *AnalyticsRepository) TaskTotals(ctx context.Context) (domain.TaskTotals, error) {
	buckets, err := r.group(ctx, r.tasks, "status")
	if err != nil {
		return domain.TaskTotals{}, fmt.Errorf("group tasks by status: %w", err)
	}

	var totals domain.TaskTotals
	for _, b := range buckets {
		totals.Total += b.Count
		switch domain.TaskStatus(b.Key) {
		case domain.TaskPending:
			totals.Pending = b.Count
		case domain.TaskCompleted:
			totals.Completed = b.Count
		}
	}
	return totals, nil
}

func (r *AnalyticsRepository) group(ctx context.Context, coll *mongo.Collection, field string) ([]domain.CountBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}

	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var docs []bucketDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]domain.CountBucket, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.CountBucket{Key: d.Key, Count: d.Count})
	}
	return out, nil
}
