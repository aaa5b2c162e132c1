// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

/*
Package records manages birth and death civic records.

It provides pure validation of raw input into canonical record documents,
a MongoDB storage gateway with indexed uniqueness, and a records manager
orchestrating the two for create/read/update/delete/list/search.

# Architecture

  - Entities: BirthRecord, DeathRecord (bson-tagged document shapes).
  - Inputs: typed create/update payloads; raw JSON never crosses the
    validator boundary as an open map.
  - Contracts: BirthRepository, DeathRepository (storage gateway).
  - Identity: registration_no is the sole lookup key per collection;
    uniqueness is enforced by the storage layer's unique index, never here.
*/
package records

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mohansharma/civicledger/pkg/optional"
)

// # Domain Entities

// Sex is the registered sex marker on a birth record.
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
	SexOther  Sex = "O"
	// SexUnset is the explicit absent marker; never left undefined.
	SexUnset Sex = ""
)

// Parents holds the optional parent names on a birth record.
type Parents struct {
	Father string `bson:"father" json:"father"`
	Mother string `bson:"mother" json:"mother"`
}

// BirthRecord is the canonical stored shape of a birth registration.
//
// RegistrationNo is uppercase-normalized and unique within the births
// collection. CreatedAt is set once by the validator and never mutated.
type BirthRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RegistrationNo string             `bson:"registration_no" json:"registration_no"`
	Name           string             `bson:"name" json:"name"`
	DOB            time.Time          `bson:"dob" json:"dob"`
	Place          string             `bson:"place" json:"place"`
	Sex            Sex                `bson:"sex" json:"sex"`
	Parents        Parents            `bson:"parents" json:"parents"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// DeathRecord is the canonical stored shape of a death registration.
//
// Registration numbers live in a separate namespace from births: the same
// number may exist in both collections.
type DeathRecord struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	RegistrationNo string             `bson:"registration_no" json:"registration_no"`
	Name           string             `bson:"name" json:"name"`
	DOD            time.Time          `bson:"dod" json:"dod"`
	Place          string             `bson:"place" json:"place"`
	Cause          string             `bson:"cause" json:"cause"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// # Date Input

// isoDateLayouts are the accepted ISO-8601 string shapes, tried in order.
var isoDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DateInput accepts a date field either as an already-typed time value or
// as an ISO-8601 string. Any other JSON shape, or a string that fails ISO
// parsing, is recorded as malformed and rejected by the validator with
// InvalidDate. Decoding itself never fails, so the validator stays the
// single reporting point.
type DateInput struct {
	Time      time.Time
	Present   bool
	Malformed bool
}

// DateOf wraps an already-typed time value, for programmatic callers.
func DateOf(t time.Time) DateInput {
	return DateInput{Time: t, Present: true}
}

func (d *DateInput) UnmarshalJSON(data []byte) error {
	d.Present = true

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// Numbers, objects, booleans: wrong shape for a date.
		d.Malformed = true
		return nil
	}

	for _, layout := range isoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}

	d.Malformed = true
	return nil
}

func (d DateInput) MarshalJSON() ([]byte, error) {
	if !d.Present {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(time.RFC3339))
}

// # Create Inputs

// BirthInput is the raw create payload for a birth record.
type BirthInput struct {
	RegistrationNo string    `json:"registration_no"`
	Name           string    `json:"name"`
	DOB            DateInput `json:"dob"`
	Place          string    `json:"place"`
	Sex            string    `json:"sex"`
	Parents        Parents   `json:"parents"`
}

// DeathInput is the raw create payload for a death record.
type DeathInput struct {
	RegistrationNo string    `json:"registration_no"`
	Name           string    `json:"name"`
	DOD            DateInput `json:"dod"`
	Place          string    `json:"place"`
	Cause          string    `json:"cause"`
}

// # Update Inputs

// Optional-field semantics for updates: a key absent from the payload
// leaves the stored field untouched; an explicit null clears it; a value
// overwrites it. Identity (registration_no) and created_at are not
// representable here and therefore never updatable.

// ParentsUpdate carries tri-state changes to the parent names.
type ParentsUpdate struct {
	Father optional.Optional[string] `json:"father"`
	Mother optional.Optional[string] `json:"mother"`
}

// BirthUpdate is the mutable field-set of a birth record.
type BirthUpdate struct {
	Name    optional.Optional[string] `json:"name"`
	Place   optional.Optional[string] `json:"place"`
	Sex     optional.Optional[string] `json:"sex"`
	Parents *ParentsUpdate            `json:"parents"`
}

// DeathUpdate is the mutable field-set of a death record.
type DeathUpdate struct {
	Name  optional.Optional[string] `json:"name"`
	Place optional.Optional[string] `json:"place"`
	Cause optional.Optional[string] `json:"cause"`
}

// Per-kind whitelists of mutable document fields. These are the only keys a
// set-document may contain; the manager rejects updates that resolve to
// none of them.
var (
	BirthUpdatableFields = []string{"name", "place", "parents", "sex"}
	DeathUpdatableFields = []string{"name", "place", "cause"}
)

// # Query Types

// Fields is a flat set-document of mutable field changes, keyed by bson
// field name. Produced by the manager from a typed update, consumed by the
// gateway.
type Fields map[string]any

// Filter is an opaque equality/range query handed through verbatim to the
// document store. No higher-level query planning happens on top of it.
type Filter map[string]any

// # Repository Contracts

// BirthRepository defines the storage gateway contract for birth records.
type BirthRepository interface {
	/*
		EnsureIndexes idempotently creates the unique registration_no index
		and the secondary name/dob indexes. Must run before any traffic.
	*/
	EnsureIndexes(ctx context.Context) error

	/*
		Insert persists a validated record.

		Returns:
		  - string: The generated document identity
		  - error: DuplicateRegistration on a unique-index collision
	*/
	Insert(ctx context.Context, record *BirthRecord) (string, error)

	/*
		FindByRegno retrieves a record by its (already-uppercased)
		registration number. Returns apperr.NotFound when absent.
	*/
	FindByRegno(ctx context.Context, regno string) (*BirthRecord, error)

	/*
		UpdateFields applies a non-empty set-document to the record with the
		given registration number.

		Returns:
		  - int64: Count of modified documents (0 or 1)
	*/
	UpdateFields(ctx context.Context, regno string, fields Fields) (int64, error)

	/*
		Delete removes the record with the given registration number.

		Returns:
		  - int64: Count of deleted documents (0 or 1; 0 is not an error)
	*/
	Delete(ctx context.Context, regno string) (int64, error)

	/*
		List returns up to limit records ordered by creation time, newest first.
	*/
	List(ctx context.Context, limit int64) ([]BirthRecord, error)

	/*
		Search returns up to limit records matching the opaque filter.
	*/
	Search(ctx context.Context, filter Filter, limit int64) ([]BirthRecord, error)
}

// DeathRepository defines the storage gateway contract for death records.
type DeathRepository interface {
	EnsureIndexes(ctx context.Context) error
	Insert(ctx context.Context, record *DeathRecord) (string, error)
	FindByRegno(ctx context.Context, regno string) (*DeathRecord, error)
	UpdateFields(ctx context.Context, regno string, fields Fields) (int64, error)
	Delete(ctx context.Context, regno string) (int64, error)
	List(ctx context.Context, limit int64) ([]DeathRecord, error)
	Search(ctx context.Context, filter Filter, limit int64) ([]DeathRecord, error)
}
