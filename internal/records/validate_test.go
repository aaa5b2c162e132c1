// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package records

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohansharma/civicledger/internal/platform/apperr"
)

/*
TestValidateBirth_Normalization verifies canonicalization of a valid payload:
uppercased registration number, trimmed name/place, coerced sex, computed
created_at.
*/
func TestValidateBirth_Normalization(t *testing.T) {
	fixed := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	restore := nowFunc
	nowFunc = func() time.Time { return fixed }
	defer func() { nowFunc = restore }()

	record, err := ValidateBirth(BirthInput{
		RegistrationNo: "  b-001 ",
		Name:           "  Asha Rao ",
		DOB:            DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)),
		Place:          " Pune ",
		Sex:            "f",
		Parents:        Parents{Father: " Ravi Rao ", Mother: "Meena Rao"},
	})
	require.NoError(t, err)

	assert.Equal(t, "B-001", record.RegistrationNo)
	assert.Equal(t, "Asha Rao", record.Name)
	assert.Equal(t, "Pune", record.Place)
	assert.Equal(t, SexFemale, record.Sex)
	assert.Equal(t, "Ravi Rao", record.Parents.Father)
	assert.Equal(t, "Meena Rao", record.Parents.Mother)
	assert.Equal(t, fixed, record.CreatedAt)
}

/*
TestValidateBirth_Failures covers each rejection kind: malformed
registration number, malformed name, and unusable dates.
*/
func TestValidateBirth_Failures(t *testing.T) {
	validDOB := DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC))

	tests := []struct {
		name     string
		input    BirthInput
		wantCode string
	}{
		{
			"missing_regno",
			BirthInput{Name: "Asha Rao", DOB: validDOB},
			apperr.CodeInvalidRegistrationNo,
		},
		{
			"regno_too_short",
			BirthInput{RegistrationNo: "B1", Name: "Asha Rao", DOB: validDOB},
			apperr.CodeInvalidRegistrationNo,
		},
		{
			"regno_illegal_chars",
			BirthInput{RegistrationNo: "B_00!", Name: "Asha Rao", DOB: validDOB},
			apperr.CodeInvalidRegistrationNo,
		},
		{
			"missing_name",
			BirthInput{RegistrationNo: "B-001", DOB: validDOB},
			apperr.CodeInvalidName,
		},
		{
			"name_too_long",
			BirthInput{RegistrationNo: "B-001", Name: longName(151), DOB: validDOB},
			apperr.CodeInvalidName,
		},
		{
			"missing_dob",
			BirthInput{RegistrationNo: "B-001", Name: "Asha Rao"},
			apperr.CodeInvalidDate,
		},
		{
			"malformed_dob",
			BirthInput{RegistrationNo: "B-001", Name: "Asha Rao", DOB: DateInput{Present: true, Malformed: true}},
			apperr.CodeInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateBirth(tt.input)
			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, tt.wantCode), "want %s, got %v", tt.wantCode, err)
		})
	}
}

/*
TestValidateBirth_SexCoercion verifies that anything outside {M, F, O} is
coerced to the explicit unset marker rather than rejected.
*/
func TestValidateBirth_SexCoercion(t *testing.T) {
	tests := []struct {
		raw  string
		want Sex
	}{
		{"M", SexMale},
		{"f", SexFemale},
		{"O", SexOther},
		{"", SexUnset},
		{"X", SexUnset},
		{"female", SexUnset},
	}

	for _, tt := range tests {
		record, err := ValidateBirth(BirthInput{
			RegistrationNo: "B-001",
			Name:           "Asha Rao",
			DOB:            DateOf(time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)),
			Sex:            tt.raw,
		})
		require.NoError(t, err)
		assert.Equal(t, tt.want, record.Sex, "raw %q", tt.raw)
	}
}

/*
TestValidateDeath covers the death-specific shape: dod instead of dob,
cause instead of parents/sex.
*/
func TestValidateDeath(t *testing.T) {
	record, err := ValidateDeath(DeathInput{
		RegistrationNo: "d-1",
		Name:           "Mohan Lal",
		DOD:            DateOf(time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC)),
		Cause:          " natural causes ",
	})
	require.NoError(t, err)

	assert.Equal(t, "D-1", record.RegistrationNo)
	assert.Equal(t, "natural causes", record.Cause)
	assert.Empty(t, record.Place)
	assert.False(t, record.CreatedAt.IsZero())

	_, err = ValidateDeath(DeathInput{RegistrationNo: "D-1", Name: "Mohan Lal"})
	assert.True(t, apperr.IsCode(err, apperr.CodeInvalidDate))
}

/*
TestDateInput_Decoding verifies the accepted ISO shapes and that wrong JSON
shapes defer to the validator instead of failing the decode.
*/
func TestDateInput_Decoding(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		malformed bool
		want      time.Time
	}{
		{"date_only", `{"dob":"1990-05-01"}`, false, time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"datetime_no_zone", `{"dob":"1990-05-01T10:30:00"}`, false, time.Date(1990, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"rfc3339", `{"dob":"1990-05-01T10:30:00Z"}`, false, time.Date(1990, 5, 1, 10, 30, 0, 0, time.UTC)},
		{"garbage_string", `{"dob":"not-a-date"}`, true, time.Time{}},
		{"wrong_shape_number", `{"dob":19900501}`, true, time.Time{}},
		{"wrong_shape_object", `{"dob":{"y":1990}}`, true, time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var input BirthInput
			require.NoError(t, json.Unmarshal([]byte(tt.body), &input))

			assert.True(t, input.DOB.Present)
			assert.Equal(t, tt.malformed, input.DOB.Malformed)
			if !tt.malformed {
				assert.True(t, input.DOB.Time.Equal(tt.want))
			}
		})
	}

	var input BirthInput
	require.NoError(t, json.Unmarshal([]byte(`{}`), &input))
	assert.False(t, input.DOB.Present)
}

func longName(n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = 'a'
	}
	return string(out)
}
