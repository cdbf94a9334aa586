package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNullable_AbsentKey(t *testing.T) {
	var payload struct {
		DueDate Nullable[time.Time] `json:"due_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{}`), &payload))
	require.False(t, payload.DueDate.Set)
	require.False(t, payload.DueDate.Null)
	require.Nil(t, payload.DueDate.Ptr())
}

func TestNullable_ExplicitNull(t *testing.T) {
	var payload struct {
		DueDate Nullable[time.Time] `json:"due_date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due_date": null}`), &payload))
	require.True(t, payload.DueDate.Set)
	require.True(t, payload.DueDate.Null)
	require.Nil(t, payload.DueDate.Ptr())
}

func TestNullable_Value(t *testing.T) {
	var payload struct {
		Hours Nullable[float64] `json:"hours"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"hours": 4.5}`), &payload))
	require.True(t, payload.Hours.Set)
	require.False(t, payload.Hours.Null)
	require.NotNil(t, payload.Hours.Ptr())
	require.Equal(t, 4.5, *payload.Hours.Ptr())
}

func TestNullable_InvalidValue(t *testing.T) {
	var payload struct {
		Hours Nullable[float64] `json:"hours"`
	}
	require.Error(t, json.Unmarshal([]byte(`{"hours": "soon"}`), &payload))
}
