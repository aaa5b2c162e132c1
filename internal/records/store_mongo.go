// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

/*
Storage gateway over the MongoDB document store.

One repository per record kind, each owning a single collection:

  - births: unique idx_birth_regno, secondary idx_birth_name / idx_birth_dob.
  - deaths: unique idx_death_regno, secondary idx_death_name / idx_death_dod.

The unique index on registration_no is the sole concurrency-correctness
mechanism: two racing inserts with the same number resolve at the store, and
the loser observes a duplicate-key error that dberr translates upward.
*/

package records

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mohansharma/civicledger/internal/platform/constants"
	"github.com/mohansharma/civicledger/internal/platform/dberr"
)

// recentFirst orders list results by creation time, newest first, with _id
// as a deterministic tie-break.
var recentFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

// # Repository Implementations

// MongoBirthRepository implements [BirthRepository] on the births collection.
type MongoBirthRepository struct {
	collection *mongo.Collection
}

var _ BirthRepository = (*MongoBirthRepository)(nil)

// NewBirthRepository creates the Mongo gateway for birth records.
func NewBirthRepository(db *mongo.Database) *MongoBirthRepository {
	return &MongoBirthRepository{collection: db.Collection(constants.CollectionBirths)}
}

// MongoDeathRepository implements [DeathRepository] on the deaths collection.
type MongoDeathRepository struct {
	collection *mongo.Collection
}

var _ DeathRepository = (*MongoDeathRepository)(nil)

// NewDeathRepository creates the Mongo gateway for death records.
func NewDeathRepository(db *mongo.Database) *MongoDeathRepository {
	return &MongoDeathRepository{collection: db.Collection(constants.CollectionDeaths)}
}

// # BirthRepository Methods

/*
EnsureIndexes idempotently creates the births indexes.

Description: Creating an index that already exists is a no-op on the server,
so this is safe to run on every startup, and must run before any traffic.

Returns:
  - error: StorageUnavailable on connectivity failure
*/
func (repository *MongoBirthRepository) EnsureIndexes(ctx context.Context) error {
	_, err := repository.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "registration_no", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_birth_regno"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_birth_name"),
		},
		{
			Keys:    bson.D{{Key: "dob", Value: 1}},
			Options: options.Index().SetName("idx_birth_dob"),
		},
	})
	return dberr.Wrap(err, "birth")
}

/*
Insert persists a validated birth record.

Parameters:
  - ctx: context.Context
  - record: *BirthRecord (validator output; never raw input)

Returns:
  - string: Hex form of the generated document identity
  - error: DuplicateRegistration on a registration_no collision
*/
func (repository *MongoBirthRepository) Insert(ctx context.Context, record *BirthRecord) (string, error) {
	result, err := repository.collection.InsertOne(ctx, record)
	if err != nil {
		return "", dberr.Wrap(err, "birth")
	}

	objectID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		// Driver generated something other than an ObjectID; still an identity.
		return "", nil
	}
	return objectID.Hex(), nil
}

/*
FindByRegno retrieves a birth record by registration number.

Returns:
  - *BirthRecord: The stored document
  - error: apperr.NotFound when absent
*/
func (repository *MongoBirthRepository) FindByRegno(ctx context.Context, regno string) (*BirthRecord, error) {
	record := &BirthRecord{}
	err := repository.collection.
		FindOne(ctx, bson.M{"registration_no": regno}).
		Decode(record)
	if err != nil {
		return nil, dberr.Wrap(err, "birth")
	}
	return record, nil
}

/*
UpdateFields applies a pre-filtered set-document to a birth record.

Description: The manager guarantees fields is non-empty and contains only
whitelisted keys; this method is a plain $set passthrough.

Returns:
  - int64: Modified document count (0 or 1)
*/
func (repository *MongoBirthRepository) UpdateFields(ctx context.Context, regno string, fields Fields) (int64, error) {
	result, err := repository.collection.UpdateOne(ctx,
		bson.M{"registration_no": regno},
		bson.M{"$set": bson.M(fields)},
	)
	if err != nil {
		return 0, dberr.Wrap(err, "birth")
	}
	return result.ModifiedCount, nil
}

/*
Delete removes a birth record by registration number.

Returns:
  - int64: Deleted document count; 0 for a missing record, not an error
*/
func (repository *MongoBirthRepository) Delete(ctx context.Context, regno string) (int64, error) {
	result, err := repository.collection.DeleteOne(ctx, bson.M{"registration_no": regno})
	if err != nil {
		return 0, dberr.Wrap(err, "birth")
	}
	return result.DeletedCount, nil
}

/*
List returns up to limit birth records, newest first.
*/
func (repository *MongoBirthRepository) List(ctx context.Context, limit int64) ([]BirthRecord, error) {
	cursor, err := repository.collection.Find(ctx, bson.M{},
		options.Find().SetSort(recentFirst).SetLimit(limit),
	)
	if err != nil {
		return nil, dberr.Wrap(err, "birth")
	}

	records := []BirthRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, dberr.Wrap(err, "birth")
	}
	return records, nil
}

/*
Search returns up to limit birth records matching the opaque filter.

Description: The filter is handed through verbatim as an equality/range
query; no query planning happens here.
*/
func (repository *MongoBirthRepository) Search(ctx context.Context, filter Filter, limit int64) ([]BirthRecord, error) {
	cursor, err := repository.collection.Find(ctx, bson.M(filter),
		options.Find().SetLimit(limit),
	)
	if err != nil {
		return nil, dberr.Wrap(err, "birth")
	}

	records := []BirthRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, dberr.Wrap(err, "birth")
	}
	return records, nil
}

// # DeathRepository Methods

// EnsureIndexes idempotently creates the deaths indexes.
func (repository *MongoDeathRepository) EnsureIndexes(ctx context.Context) error {
	_, err := repository.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "registration_no", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_death_regno"),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_death_name"),
		},
		{
			Keys:    bson.D{{Key: "dod", Value: 1}},
			Options: options.Index().SetName("idx_death_dod"),
		},
	})
	return dberr.Wrap(err, "death")
}

// Insert persists a validated death record.
func (repository *MongoDeathRepository) Insert(ctx context.Context, record *DeathRecord) (string, error) {
	result, err := repository.collection.InsertOne(ctx, record)
	if err != nil {
		return "", dberr.Wrap(err, "death")
	}

	objectID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	return objectID.Hex(), nil
}

// FindByRegno retrieves a death record by registration number.
func (repository *MongoDeathRepository) FindByRegno(ctx context.Context, regno string) (*DeathRecord, error) {
	record := &DeathRecord{}
	err := repository.collection.
		FindOne(ctx, bson.M{"registration_no": regno}).
		Decode(record)
	if err != nil {
		return nil, dberr.Wrap(err, "death")
	}
	return record, nil
}

// UpdateFields applies a pre-filtered set-document to a death record.
func (repository *MongoDeathRepository) UpdateFields(ctx context.Context, regno string, fields Fields) (int64, error) {
	result, err := repository.collection.UpdateOne(ctx,
		bson.M{"registration_no": regno},
		bson.M{"$set": bson.M(fields)},
	)
	if err != nil {
		return 0, dberr.Wrap(err, "death")
	}
	return result.ModifiedCount, nil
}

// Delete removes a death record by registration number.
func (repository *MongoDeathRepository) Delete(ctx context.Context, regno string) (int64, error) {
	result, err := repository.collection.DeleteOne(ctx, bson.M{"registration_no": regno})
	if err != nil {
		return 0, dberr.Wrap(err, "death")
	}
	return result.DeletedCount, nil
}

// List returns up to limit death records, newest first.
func (repository *MongoDeathRepository) List(ctx context.Context, limit int64) ([]DeathRecord, error) {
	cursor, err := repository.collection.Find(ctx, bson.M{},
		options.Find().SetSort(recentFirst).SetLimit(limit),
	)
	if err != nil {
		return nil, dberr.Wrap(err, "death")
	}

	records := []DeathRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, dberr.Wrap(err, "death")
	}
	return records, nil
}

// Search returns up to limit death records matching the opaque filter.
func (repository *MongoDeathRepository) Search(ctx context.Context, filter Filter, limit int64) ([]DeathRecord, error) {
	cursor, err := repository.collection.Find(ctx, bson.M(filter),
		options.Find().SetLimit(limit),
	)
	if err != nil {
		return nil, dberr.Wrap(err, "death")
	}

	records := []DeathRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, dberr.Wrap(err, "death")
	}
	return records, nil
}
