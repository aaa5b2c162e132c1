// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

// Package dberr provides a bridge between low-level MongoDB driver errors
// and higher-level application errors.
package dberr

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mohansharma/civicledger/internal/platform/apperr"
)

// Wrap inspects a document-store error and wraps it into a meaningful
// [apperr.AppError]. It hides driver internals from callers while
// classifying the error type.
//
// # Classification
//
//   - Duplicate key (unique index violation) → DuplicateRegistration for kind.
//   - No documents matched a findOne → NotFound for kind.
//   - Everything else (connectivity, timeout) → StorageUnavailable.
func Wrap(err error, kind string) error {
	if err == nil {
		return nil
	}

	// 1. Unique index violation on registration_no
	if mongo.IsDuplicateKeyError(err) {
		return apperr.DuplicateRegistration(kind)
	}

	// 2. Not Found mapping
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound(kind + " record")
	}

	// 3. Context expiry is still a storage-boundary failure from the
	// caller's point of view; the cause is preserved for logging.
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperr.StorageUnavailable(err)
	}

	// 4. Unknown driver errors become StorageUnavailable
	return apperr.StorageUnavailable(err)
}
