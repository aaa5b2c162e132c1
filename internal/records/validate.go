// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package records

import (
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/mohansharma/civicledger/internal/platform/apperr"
)

// # Validation Rules

var (
	// regnoRe matches the canonical registration number format. Input is
	// uppercased before matching, so the check is case-insensitive by
	// construction.
	regnoRe = regexp.MustCompile(`^[A-Z0-9-]{3,50}$`)

	// nameRe restricts names to word/space/punctuation characters,
	// Unicode-aware (Go's \w is ASCII-only).
	nameRe = regexp.MustCompile(`^[\p{L}\p{N}_\s.'-]{2,150}$`)
)

// nowFunc supplies CreatedAt timestamps; overridable in tests.
var nowFunc = func() time.Time { return time.Now().UTC() }

// # Pure Validators

// ValidateBirth checks and normalizes a raw birth payload into its
// canonical stored shape.
//
// Description: Pure function with no I/O and no dependence on stored records;
// registration-number uniqueness is the storage layer's job. CreatedAt is
// the only field computed rather than passed through.
//
// Returns:
//   - *BirthRecord: Canonical record ready for insertion
//   - error: InvalidRegistrationNumber, InvalidName, or InvalidDate
func ValidateBirth(input BirthInput) (*BirthRecord, error) {
	regno, err := normalizeRegno(input.RegistrationNo)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}

	if !input.DOB.Present || input.DOB.Malformed {
		return nil, apperr.InvalidDate("dob")
	}

	return &BirthRecord{
		RegistrationNo: regno,
		Name:           name,
		DOB:            input.DOB.Time,
		Place:          strings.TrimSpace(input.Place),
		Sex:            normalizeSex(input.Sex),
		Parents: Parents{
			Father: strings.TrimSpace(input.Parents.Father),
			Mother: strings.TrimSpace(input.Parents.Mother),
		},
		CreatedAt: nowFunc(),
	}, nil
}

// ValidateDeath checks and normalizes a raw death payload into its
// canonical stored shape. Same contract as [ValidateBirth].
func ValidateDeath(input DeathInput) (*DeathRecord, error) {
	regno, err := normalizeRegno(input.RegistrationNo)
	if err != nil {
		return nil, err
	}

	name, err := normalizeName(input.Name)
	if err != nil {
		return nil, err
	}

	if !input.DOD.Present || input.DOD.Malformed {
		return nil, apperr.InvalidDate("dod")
	}

	return &DeathRecord{
		RegistrationNo: regno,
		Name:           name,
		DOD:            input.DOD.Time,
		Place:          strings.TrimSpace(input.Place),
		Cause:          strings.TrimSpace(input.Cause),
		CreatedAt:      nowFunc(),
	}, nil
}

// # Normalization Helpers

func normalizeRegno(raw string) (string, error) {
	regno := strings.ToUpper(strings.TrimSpace(raw))
	if !regnoRe.MatchString(regno) {
		return "", apperr.InvalidRegistrationNumber()
	}
	return regno, nil
}

func normalizeName(raw string) (string, error) {
	// NFC so composed and decomposed spellings of the same name validate
	// and store identically.
	name := norm.NFC.String(strings.TrimSpace(raw))
	if !nameRe.MatchString(name) {
		return "", apperr.InvalidName()
	}
	return name, nil
}

// normalizeSex coerces anything outside {M, F, O} to the unset marker,
// matching the tolerant behavior of the registration intake forms.
func normalizeSex(raw string) Sex {
	switch Sex(strings.ToUpper(strings.TrimSpace(raw))) {
	case SexMale:
		return SexMale
	case SexFemale:
		return SexFemale
	case SexOther:
		return SexOther
	default:
		return SexUnset
	}
}
