package mongo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/relaycrm/crm-api/internal/core/domain"
	"github.com/relaycrm/crm-api/internal/core/ports"
)

const leadsCollection = "leads"

type LeadRepository struct {
	coll *mongo.Collection
}

func NewLeadRepository(db *mongo.Database) *LeadRepository {
	return &LeadRepository{coll: db.Collection(leadsCollection)}
}

type leadDocument struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty"`
	Name       string              `bson:"name"`
	Email      string              `bson:"email,omitempty"`
	Phone      string              `bson:"phone,omitempty"`
	Source     string              `bson:"source"`
	Status     string              `bson:"status"`
	AssignedTo *primitive.ObjectID `bson:"assigned_to,omitempty"`
	CreatedBy  primitive.ObjectID  `bson:"created_by"`
	Notes      string              `bson:"notes,omitempty"`
	CreatedAt  time.Time           `bson:"created_at"`
	UpdatedAt  time.Time           `bson:"updated_at"`
}

func (d *leadDocument) toDomain() *domain.Lead {
	return &domain.Lead{
		ID:         d.ID.Hex(),
		Name:       d.Name,
		Email:      d.Email,
		Phone:      d.Phone,
		Source:     domain.LeadSource(d.Source),
		Status:     domain.LeadStatus(d.Status),
		AssignedTo: hexOrEmpty(d.AssignedTo),
		CreatedBy:  d.CreatedBy.Hex(),
		Notes:      d.Notes,
		CreatedAt:  d.CreatedAt.UTC(),
		UpdatedAt:  d.UpdatedAt.UTC(),
	}
}

// Create inserts a new lead document and sets lead.ID.
func (r *LeadRepository) Create(ctx context.Context, lead *domain.Lead) error {
	createdBy, err := objectID(lead.CreatedBy)
	if err != nil {
		return err
	}
	assignedTo, err := optionalObjectID(lead.AssignedTo)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := leadDocument{
		Name:       lead.Name,
		Email:      lead.Email,
		Phone:      lead.Phone,
		Source:     string(lead.Source),
		Status:     string(lead.Status),
		AssignedTo: assignedTo,
		CreatedBy:  createdBy,
		Notes:      lead.Notes,
		CreatedAt:  lead.CreatedAt,
		UpdatedAt:  lead.UpdatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		lead.ID = oid.Hex()
	}
	return nil
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*domain.Lead, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc leadDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("find lead: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of leads, newest first, plus the total match count.
func (r *LeadRepository) List(ctx context.Context, f ports.ListLeadsFilter) ([]*domain.Lead, int64, error) {
	filter, err := leadListFilter(f)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip(int64((page - 1) * f.Limit)).SetLimit(int64(f.Limit))
	}

	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find leads: %w", err)
	}
	var docs []leadDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode leads: %w", err)
	}

	leads := make([]*domain.Lead, 0, len(docs))
	for i := range docs {
		leads = append(leads, docs[i].toDomain())
	}
	return leads, total, nil
}

func leadListFilter(f ports.ListLeadsFilter) (bson.M, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Source != "" {
		filter["source"] = f.Source
	}
	if f.AssignedTo != "" {
		oid, err := objectID(f.AssignedTo)
		if err != nil {
			return nil, err
		}
		filter["assigned_to"] = oid
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
		}
	}
	return filter, nil
}

// Update applies patch with $set/$unset. created_by is never part of the update.
func (r *LeadRepository) Update(ctx context.Context, id string, patch domain.LeadPatch) (*domain.Lead, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	setString := func(key string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			unset[key] = ""
			return
		}
		set[key] = *v
	}

	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	setString("email", patch.Email)
	setString("phone", patch.Phone)
	setString("notes", patch.Notes)
	if patch.Source != nil {
		set["source"] = string(*patch.Source)
	}
	if patch.Status != nil {
		set["status"] = string(*patch.Status)
	}
	if patch.AssignedTo != nil {
		assignee, err := optionalObjectID(*patch.AssignedTo)
		if err != nil {
			return nil, err
		}
		if assignee == nil {
			unset["assigned_to"] = ""
		} else {
			set["assigned_to"] = *assignee
		}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc leadDocument
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.ErrLeadNotFound
		}
		return nil, fmt.Errorf("update lead: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *LeadRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrLeadNotFound
	}
	return nil
}

// EnsureIndexes creates indexes used by the list filters.
func (r *LeadRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "source", Value: 1}}},
		{Keys: bson.D{{Key: "assigned_to", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("leads indexes: %w", err)
	}
	return nil
}
