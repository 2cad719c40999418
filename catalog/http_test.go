package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/strideworks/exvec/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		client, err := NewHTTPClient(Config{URL: "http://example.com/exercise"})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})

	t.Run("missing URL", func(t *testing.T) {
		_, err := NewHTTPClient(Config{})
		assert.Error(t, err)
	})
}

func TestGetExercise(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer token", r.Header.Get("authorization"))

		var req map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(42), req["id"])

		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{
			"data": {
				"name": "Goblet Squat",
				"description": "A squat holding a weight at chest height",
				"instructions": "Hold the weight close, squat to depth",
				"type": "strength",
				"tags": [
					{"type": "mainMuscle", "name": "quadriceps"},
					{"type": "muscle", "name": "glutes"},
					{"type": "equipment", "name": "kettlebell"},
					{"type": "level", "name": "beginner"},
					{"type": "movement", "name": "squat"}
				]
			}
		}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(Config{URL: server.URL, Authorization: "Bearer token"})
	require.NoError(t, err)

	record, err := client.GetExercise(context.Background(), 42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), record.Id)
	assert.Equal(t, "Goblet Squat", record.Name)
	assert.Equal(t, "strength", record.Category)
	assert.Equal(t, []string{"quadriceps", "glutes"}, record.MuscleGroups)
	assert.Equal(t, []string{"kettlebell"}, record.Equipment)
	assert.Equal(t, core.DifficultyBeginner, record.Difficulty)
	assert.Equal(t, []string{"squat"}, record.Tags)
}

func TestGetExercise_TopLevelPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"name": "Plank", "type": "core"}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(Config{URL: server.URL})
	require.NoError(t, err)

	record, err := client.GetExercise(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Plank", record.Name)
	assert.Equal(t, "core", record.Category)
}

func TestGetExercise_UnknownLevelBecomesTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "application/json")
		w.Write([]byte(`{"name": "Snatch", "tags": [{"type": "level", "name": "elite"}]}`))
	}))
	defer server.Close()

	client, err := NewHTTPClient(Config{URL: server.URL})
	require.NoError(t, err)

	record, err := client.GetExercise(context.Background(), 8)
	require.NoError(t, err)
	assert.Empty(t, record.Difficulty)
	assert.Equal(t, []string{"elite"}, record.Tags)
}

func TestGetExercise_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := NewHTTPClient(Config{URL: server.URL})
	require.NoError(t, err)

	_, err = client.GetExercise(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetExercise_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client, err := NewHTTPClient(Config{URL: server.URL})
	require.NoError(t, err)

	_, err = client.GetExercise(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGetExercise_Unreachable(t *testing.T) {
	client, err := NewHTTPClient(Config{URL: "http://127.0.0.1:1/exercise"})
	require.NoError(t, err)

	_, err = client.GetExercise(context.Background(), 1)
	assert.ErrorIs(t, err, ErrUnavailable)
}
