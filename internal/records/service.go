// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package records

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mohansharma/civicledger/internal/platform/apperr"
	"github.com/mohansharma/civicledger/internal/platform/constants"
)

// # Service Layer

// Service is the records manager: it orchestrates Validator → Storage
// Gateway for both record kinds and translates storage-layer failures into
// domain errors.
//
// # Concurrency
//
// Every operation is a single synchronous request/response against the
// storage layer; there is no in-process shared mutable state beyond the
// injected handles, so the service is safe for concurrent use.
type Service struct {
	births BirthRepository
	deaths DeathRepository
	cache  *Cache
	logger *slog.Logger
}

// NewService constructs a [Service] with its gateway dependencies.
// cache may be nil to disable lookup caching.
func NewService(births BirthRepository, deaths DeathRepository, cache *Cache, logger *slog.Logger) *Service {
	return &Service{
		births: births,
		deaths: deaths,
		cache:  cache,
		logger: logger,
	}
}

// EnsureIndexes bootstraps the indexes of both collections. Idempotent;
// must complete before the service takes traffic.
func (service *Service) EnsureIndexes(ctx context.Context) error {
	if err := service.births.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("records_service_ensure_birth_indexes_failed: %w", err)
	}
	if err := service.deaths.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("records_service_ensure_death_indexes_failed: %w", err)
	}
	return nil
}

// # Birth Operations

/*
CreateBirth validates a raw birth payload and persists the canonical record.

Description: Validation failures are reported before any write is attempted.
A duplicate registration number surfaces as DuplicateRegistration, a
permanent rejection that is never retried here.

Parameters:
  - ctx: context.Context
  - input: BirthInput (raw payload)

Returns:
  - string: The generated document identity
  - error: Validation errors, DuplicateRegistration, or StorageUnavailable
*/
func (service *Service) CreateBirth(ctx context.Context, input BirthInput) (string, error) {
	record, err := ValidateBirth(input)
	if err != nil {
		return "", err
	}

	id, err := service.births.Insert(ctx, record)
	if err != nil {
		return "", err
	}

	service.logger.Info("birth_record_created",
		slog.String("registration_no", record.RegistrationNo),
		slog.String("id", id),
	)

	return id, nil
}

/*
GetBirth retrieves a birth record by registration number.

Description: The input is uppercased before lookup, so retrieval is
case-insensitive by construction. When the cache is enabled, a fresh copy
is served from Redis and misses are backfilled.

Returns:
  - *BirthRecord: The stored record
  - error: apperr.NotFound when absent
*/
func (service *Service) GetBirth(ctx context.Context, regno string) (*BirthRecord, error) {
	key := lookupKey(regno)

	if cached := service.cache.GetBirth(ctx, key); cached != nil {
		return cached, nil
	}

	record, err := service.births.FindByRegno(ctx, key)
	if err != nil {
		return nil, err
	}

	service.cache.SetBirth(ctx, record)
	return record, nil
}

/*
UpdateBirth applies a partial update to the mutable birth fields
(name, place, parents, sex).

Description: The typed update payload can only express whitelisted fields;
identity and created_at are structurally absent. A payload that resolves to
no field changes fails with NoUpdatableFields rather than silently
succeeding with zero writes.

Returns:
  - int64: Modified document count (0 or 1)
  - error: NoUpdatableFields, InvalidName, or storage failures
*/
func (service *Service) UpdateBirth(ctx context.Context, regno string, update BirthUpdate) (int64, error) {
	fields, err := buildBirthFields(update)
	if err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, apperr.NoUpdatableFields()
	}

	key := lookupKey(regno)
	modified, err := service.births.UpdateFields(ctx, key, fields)
	if err != nil {
		return 0, err
	}

	if err := service.cache.InvalidateBirth(ctx, key); err != nil {
		service.logger.Warn("birth_cache_invalidate_failed",
			slog.String("registration_no", key),
			slog.Any("error", err),
		)
	}

	service.logger.Info("birth_record_updated",
		slog.String("registration_no", key),
		slog.Int64("modified", modified),
	)

	return modified, nil
}

/*
DeleteBirth removes a birth record by registration number.

Returns:
  - int64: Deleted count; 0 for a non-existent record, not an error
*/
func (service *Service) DeleteBirth(ctx context.Context, regno string) (int64, error) {
	key := lookupKey(regno)

	deleted, err := service.births.Delete(ctx, key)
	if err != nil {
		return 0, err
	}

	if err := service.cache.InvalidateBirth(ctx, key); err != nil {
		service.logger.Warn("birth_cache_invalidate_failed",
			slog.String("registration_no", key),
			slog.Any("error", err),
		)
	}

	return deleted, nil
}

// ListBirths returns the most recent birth records, newest first.
// A non-positive limit falls back to the default of 50.
func (service *Service) ListBirths(ctx context.Context, limit int64) ([]BirthRecord, error) {
	return service.births.List(ctx, normalizeLimit(limit))
}

// SearchBirths returns birth records matching an opaque equality/range
// filter, handed through to the store unchanged.
func (service *Service) SearchBirths(ctx context.Context, filter Filter, limit int64) ([]BirthRecord, error) {
	if filter == nil {
		filter = Filter{}
	}
	return service.births.Search(ctx, filter, normalizeLimit(limit))
}

// # Death Operations

// CreateDeath validates a raw death payload and persists the canonical
// record. Same contract as [Service.CreateBirth].
func (service *Service) CreateDeath(ctx context.Context, input DeathInput) (string, error) {
	record, err := ValidateDeath(input)
	if err != nil {
		return "", err
	}

	id, err := service.deaths.Insert(ctx, record)
	if err != nil {
		return "", err
	}

	service.logger.Info("death_record_created",
		slog.String("registration_no", record.RegistrationNo),
		slog.String("id", id),
	)

	return id, nil
}

// GetDeath retrieves a death record, case-insensitive by construction.
func (service *Service) GetDeath(ctx context.Context, regno string) (*DeathRecord, error) {
	key := lookupKey(regno)

	if cached := service.cache.GetDeath(ctx, key); cached != nil {
		return cached, nil
	}

	record, err := service.deaths.FindByRegno(ctx, key)
	if err != nil {
		return nil, err
	}

	service.cache.SetDeath(ctx, record)
	return record, nil
}

// UpdateDeath applies a partial update to the mutable death fields
// (name, place, cause). Same contract as [Service.UpdateBirth].
func (service *Service) UpdateDeath(ctx context.Context, regno string, update DeathUpdate) (int64, error) {
	fields, err := buildDeathFields(update)
	if err != nil {
		return 0, err
	}
	if len(fields) == 0 {
		return 0, apperr.NoUpdatableFields()
	}

	key := lookupKey(regno)
	modified, err := service.deaths.UpdateFields(ctx, key, fields)
	if err != nil {
		return 0, err
	}

	if err := service.cache.InvalidateDeath(ctx, key); err != nil {
		service.logger.Warn("death_cache_invalidate_failed",
			slog.String("registration_no", key),
			slog.Any("error", err),
		)
	}

	service.logger.Info("death_record_updated",
		slog.String("registration_no", key),
		slog.Int64("modified", modified),
	)

	return modified, nil
}

// DeleteDeath removes a death record by registration number.
func (service *Service) DeleteDeath(ctx context.Context, regno string) (int64, error) {
	key := lookupKey(regno)

	deleted, err := service.deaths.Delete(ctx, key)
	if err != nil {
		return 0, err
	}

	if err := service.cache.InvalidateDeath(ctx, key); err != nil {
		service.logger.Warn("death_cache_invalidate_failed",
			slog.String("registration_no", key),
			slog.Any("error", err),
		)
	}

	return deleted, nil
}

// ListDeaths returns the most recent death records, newest first.
func (service *Service) ListDeaths(ctx context.Context, limit int64) ([]DeathRecord, error) {
	return service.deaths.List(ctx, normalizeLimit(limit))
}

// SearchDeaths returns death records matching an opaque filter.
func (service *Service) SearchDeaths(ctx context.Context, filter Filter, limit int64) ([]DeathRecord, error) {
	if filter == nil {
		filter = Filter{}
	}
	return service.deaths.Search(ctx, filter, normalizeLimit(limit))
}

// # Update Field Assembly

// buildBirthFields converts a typed birth update into a set-document
// containing only whitelisted keys ([BirthUpdatableFields]).
func buildBirthFields(update BirthUpdate) (Fields, error) {
	fields := Fields{}

	if update.Name.Set {
		// Name is mandatory on the record, so an explicit null cannot clear it.
		name, err := normalizeName(update.Name.Value)
		if !update.Name.Valid || err != nil {
			return nil, apperr.InvalidName()
		}
		fields["name"] = name
	}

	if update.Place.Set {
		fields["place"] = clearedOr(update.Place.Valid, strings.TrimSpace(update.Place.Value))
	}

	if update.Sex.Set {
		// Explicit null and unknown markers both resolve to the unset value.
		fields["sex"] = normalizeSex(update.Sex.Value)
	}

	if update.Parents != nil {
		if update.Parents.Father.Set {
			fields["parents.father"] = clearedOr(update.Parents.Father.Valid, strings.TrimSpace(update.Parents.Father.Value))
		}
		if update.Parents.Mother.Set {
			fields["parents.mother"] = clearedOr(update.Parents.Mother.Valid, strings.TrimSpace(update.Parents.Mother.Value))
		}
	}

	return fields, nil
}

// buildDeathFields converts a typed death update into a set-document
// containing only whitelisted keys ([DeathUpdatableFields]).
func buildDeathFields(update DeathUpdate) (Fields, error) {
	fields := Fields{}

	if update.Name.Set {
		name, err := normalizeName(update.Name.Value)
		if !update.Name.Valid || err != nil {
			return nil, apperr.InvalidName()
		}
		fields["name"] = name
	}

	if update.Place.Set {
		fields["place"] = clearedOr(update.Place.Valid, strings.TrimSpace(update.Place.Value))
	}

	if update.Cause.Set {
		fields["cause"] = clearedOr(update.Cause.Valid, strings.TrimSpace(update.Cause.Value))
	}

	return fields, nil
}

// clearedOr returns value for a present field, or the explicit unset
// marker when the payload carried null.
func clearedOr(valid bool, value string) string {
	if !valid {
		return ""
	}
	return value
}

// # Helpers

// lookupKey uppercases a registration number for lookups; no pattern check
// so that get/delete on arbitrary input simply miss instead of erroring.
func lookupKey(regno string) string {
	return strings.ToUpper(strings.TrimSpace(regno))
}

func normalizeLimit(limit int64) int64 {
	if limit <= 0 {
		return constants.DefaultListLimit
	}
	return limit
}
