package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notePayload struct {
	Notes Field[string]  `json:"notes"`
	Total Field[int64]   `json:"total"`
	Plan  Field[*string] `json:"plan"`
}

func TestField_Presence(t *testing.T) {
	var p notePayload
	require.NoError(t, json.Unmarshal([]byte(`{"total": 1200}`), &p))
	assert.False(t, p.Notes.Set)
	assert.True(t, p.Total.Set)
	assert.Equal(t, int64(1200), p.Total.Value)

	notes := "A"
	assert.False(t, p.Notes.Apply(&notes))
	assert.Equal(t, "A", notes)
}

func TestField_EmptyAndNullClear(t *testing.T) {
	var p notePayload
	require.NoError(t, json.Unmarshal([]byte(`{"notes": "", "plan": null}`), &p))

	notes := "A"
	assert.True(t, p.Notes.Apply(&notes))
	assert.Equal(t, "", notes)

	plan := "plan-42"
	planPtr := &plan
	assert.True(t, p.Plan.Apply(&planPtr))
	assert.Nil(t, planPtr)
}

func TestField_NullOnValueType(t *testing.T) {
	var p notePayload
	require.NoError(t, json.Unmarshal([]byte(`{"notes": null}`), &p))
	assert.True(t, p.Notes.Set)
	assert.Equal(t, "", p.Notes.Value)
}

func TestField_TypeMismatch(t *testing.T) {
	var p notePayload
	assert.Error(t, json.Unmarshal([]byte(`{"total": "lots"}`), &p))
}

func TestField_Marshal(t *testing.T) {
	out, err := json.Marshal(notePayload{Notes: Some("hi")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"notes":"hi","total":null,"plan":null}`, string(out))
}
