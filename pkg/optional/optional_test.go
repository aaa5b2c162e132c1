// Copyright (c) 2026 CivicLedger. All rights reserved.
// Author: mohan.sharma.dev@gmail.com

package optional_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohansharma/civicledger/pkg/optional"
)

type payload struct {
	Place optional.Optional[string] `json:"place"`
}

/*
TestOptional_TriState verifies the absent / null / value distinction that
update payloads rely on.
*/
func TestOptional_TriState(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantSet   bool
		wantValid bool
		wantValue string
	}{
		{"key_absent", `{}`, false, false, ""},
		{"explicit_null", `{"place": null}`, true, false, ""},
		{"value_present", `{"place": "Pune"}`, true, true, "Pune"},
		{"empty_string_is_a_value", `{"place": ""}`, true, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))

			assert.Equal(t, tt.wantSet, p.Place.Set)
			assert.Equal(t, tt.wantValid, p.Place.Valid)
			assert.Equal(t, tt.wantValue, p.Place.Value)
		})
	}
}

func TestOptional_Get(t *testing.T) {
	v, ok := optional.Of("Asha").Get()
	assert.True(t, ok)
	assert.Equal(t, "Asha", v)

	_, ok = optional.Null[string]().Get()
	assert.False(t, ok)

	var zero optional.Optional[string]
	_, ok = zero.Get()
	assert.False(t, ok)
}

func TestOptional_MarshalRoundTrip(t *testing.T) {
	out, err := json.Marshal(payload{Place: optional.Of("Pune")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"place":"Pune"}`, string(out))

	out, err = json.Marshal(payload{Place: optional.Null[string]()})
	require.NoError(t, err)
	assert.JSONEq(t, `{"place":null}`, string(out))
}
