package docstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on MongoDB. Batches run inside a session
// transaction, which is where the all-or-nothing guarantee comes from; the
// deployment must therefore be a replica set (standalone mongod does not
// support transactions).
//
// Collection mapping: top-level paths map to collections of the same name
// (the leading underscore of "_blogs" is dropped). The per-category mirror
// paths "categories/{c}/blogs" all collapse into a single "category_blogs"
// collection keyed by "{c}/{blogId}" so a cross-path batch stays inside one
// database and one transaction.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoStore(client *mongo.Client, database string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database)}
}

const mirrorCollection = "category_blogs"

// resolve maps a logical collection path to (collection, document _id).
func (s *MongoStore) resolve(path, id string) (*mongo.Collection, string, error) {
	parts := strings.Split(path, "/")
	switch {
	case len(parts) == 1 && parts[0] == BlogsPath:
		return s.db.Collection("blogs"), id, nil
	case len(parts) == 1:
		return s.db.Collection(parts[0]), id, nil
	case len(parts) == 3 && parts[0] == CategoriesPath && parts[2] == "blogs":
		return s.db.Collection(mirrorCollection), parts[1] + "/" + id, nil
	default:
		return nil, "", fmt.Errorf("unsupported collection path %q", path)
	}
}

// logicalID strips the category prefix from a mirror key so callers always
// see the canonical blog id.
func logicalID(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func (s *MongoStore) Now() time.Time {
	// BSON datetimes carry millisecond precision; truncate so a value read
	// back compares equal to the one written.
	return time.Now().UTC().Truncate(time.Millisecond)
}

func (s *MongoStore) Get(ctx context.Context, path, id string) (Document, error) {
	col, key, err := s.resolve(path, id)
	if err != nil {
		return nil, err
	}
	var raw bson.M
	if err := col.FindOne(ctx, bson.M{"_id": key}).Decode(&raw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return fromBSON(raw), nil
}

func (s *MongoStore) Query(ctx context.Context, path string, filters []Filter, order *OrderBy, limit int) ([]Document, error) {
	col, _, err := s.resolve(path, "-")
	if err != nil {
		return nil, err
	}
	q := bson.M{}
	for _, f := range filters {
		switch f.Op {
		case "==", "":
			q[f.Field] = f.Value
		default:
			return nil, fmt.Errorf("unsupported filter op %q", f.Op)
		}
	}
	opts := options.Find()
	if order != nil {
		dir := 1
		if order.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: order.Field, Value: dir}})
	}
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := col.Find(ctx, q, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []Document{}
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, err
		}
		out = append(out, fromBSON(raw))
	}
	return out, cur.Err()
}

func (s *MongoStore) BatchWrite(ctx context.Context, ops []Op) error {
	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		for _, op := range ops {
			if err := s.apply(sc, op); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	return err
}

func (s *MongoStore) apply(ctx context.Context, op Op) error {
	col, key, err := s.resolve(op.Path, op.ID)
	if err != nil {
		return err
	}
	switch op.Kind {
	case OpSet:
		doc := toBSON(op.Data)
		doc["_id"] = key
		if _, err := col.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true)); err != nil {
			return fmt.Errorf("set %s/%s: %w", op.Path, op.ID, err)
		}
	case OpMerge:
		if _, err := col.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": toBSON(op.Data)}, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("merge %s/%s: %w", op.Path, op.ID, err)
		}
	case OpUpdate:
		res, err := col.UpdateOne(ctx, bson.M{"_id": key}, bson.M{"$set": toBSON(op.Data)})
		if err != nil {
			return fmt.Errorf("update %s/%s: %w", op.Path, op.ID, err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("update %s/%s: %w", op.Path, op.ID, ErrNotFound)
		}
	case OpDelete:
		// deleting an absent document is a no-op, per the store contract
		if _, err := col.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
			return fmt.Errorf("delete %s/%s: %w", op.Path, op.ID, err)
		}
	default:
		return fmt.Errorf("unknown op kind %q", op.Kind)
	}
	return nil
}

func toBSON(d Document) bson.M {
	out := bson.M{}
	for k, v := range d {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}

func fromBSON(raw bson.M) Document {
	out := Document{}
	for k, v := range raw {
		if dt, ok := v.(primitive.DateTime); ok {
			out[k] = dt.Time().UTC()
			continue
		}
		out[k] = v
	}
	if id, ok := raw["_id"].(string); ok {
		out["_id"] = logicalID(id)
	}
	return out
}
