package repositories

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"review-desk/models"
)

type SubmissionRepository struct {
	col *mongo.Collection
}

func NewSubmissionRepository(db *mongo.Database, collection string) *SubmissionRepository {
	if collection == "" {
		collection = "submissions"
	}
	return &SubmissionRepository{col: db.Collection(collection)}
}

// ListAll returns all submissions ordered by creation time (insertion order).
func (r *SubmissionRepository) ListAll(ctx context.Context) ([]models.Submission, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]models.Submission, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode submissions: %w", err)
	}
	return out, nil
}

// FindByID returns the unique submission matching id.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var s models.Submission
	if err := r.col.FindOne(ctx, bson.M{"id": id}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Append inserts one submission. The unique index on id (ensured at db.Init)
// rejects duplicate identities.
func (r *SubmissionRepository) Append(ctx context.Context, s *models.Submission) error {
	if _, err := r.col.InsertOne(ctx, s); err != nil {
		return fmt.Errorf("append submission %s: %w", s.ID, err)
	}
	return nil
}

// UpdateFieldsByID overwrites the given mutable fields on the row matching id.
// Unknown and immutable field names are ignored; unrelated fields are left
// untouched.
func (r *SubmissionRepository) UpdateFieldsByID(ctx context.Context, id string, updates map[string]string) (bool, error) {
	set := bson.M{}
	for _, col := range models.Columns {
		val, ok := updates[col]
		if !ok || !models.IsMutable(col) {
			continue
		}
		set[col] = val
	}
	if len(set) == 0 {
		// Nothing from the known schema to write; still report row existence.
		if _, err := r.FindByID(ctx, id); err != nil {
			if err == ErrNotFound {
				return false, nil
			}
			return false, err
		}
		return true, nil
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("update submission %s: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

var _ SubmissionStore = (*SubmissionRepository)(nil)
