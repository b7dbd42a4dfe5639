package admins

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository defines persistence operations for admin accounts.
type Repository interface {
	UpsertBySub(ctx context.Context, a *Admin) (*Admin, error)
	GetBySub(ctx context.Context, sub string) (*Admin, error)
	List(ctx context.Context) ([]*Admin, error)
	SetRole(ctx context.Context, sub, role string) error
	DeleteBySub(ctx context.Context, sub string) error
}

// MongoRepository implements Repository using MongoDB.
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

func (r *MongoRepository) UpsertBySub(ctx context.Context, a *Admin) (*Admin, error) {
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	filter := bson.M{"sub": a.Sub}
	update := bson.M{
		"$set": bson.M{
			"email":     a.Email,
			"name":      a.Name,
			"updatedAt": a.UpdatedAt,
		},
		// role and createdAt are only written on first insert so a later
		// login cannot silently demote or re-date an account
		"$setOnInsert": bson.M{
			"role":      a.Role,
			"createdAt": a.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated Admin
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return a, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) GetBySub(ctx context.Context, sub string) (*Admin, error) {
	var a Admin
	if err := r.col.FindOne(ctx, bson.M{"sub": sub}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]*Admin, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*Admin{}
	for cur.Next(ctx) {
		var a Admin
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}

func (r *MongoRepository) SetRole(ctx context.Context, sub, role string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"sub": sub},
		bson.M{"$set": bson.M{"role": role, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *MongoRepository) DeleteBySub(ctx context.Context, sub string) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"sub": sub})
	return err
}
