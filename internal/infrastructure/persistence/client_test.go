package persistence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"proctorlink/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLog(t *testing.T) {
	var gotPath, gotAuth, gotContentType string
	var gotBody map[string]interface{}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client := NewClient(ts.URL+"/", time.Second)
	event := domain.LogEvent{
		RoomSlug:  "room-1",
		EventType: "gaze_away",
		Message:   "candidate looked away",
		Timestamp: 12.5,
	}

	err := client.AppendLog(context.Background(), "token-abc", event)
	require.NoError(t, err)

	assert.Equal(t, "/room/add-log", gotPath)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "room-1", gotBody["roomSlug"])
	assert.Equal(t, "gaze_away", gotBody["eventType"])
	assert.Equal(t, "candidate looked away", gotBody["message"])
	assert.Equal(t, 12.5, gotBody["timestamp"])
	assert.NotContains(t, gotBody, "credential", "the credential never travels in the body")
}

func TestAppendLogNonSuccessStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"token expired"}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, time.Second)
	err := client.AppendLog(context.Background(), "stale-token", domain.LogEvent{
		RoomSlug:  "room-1",
		EventType: "gaze_away",
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "token expired")
}

func TestAppendLogUnreachableHost(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 100*time.Millisecond)
	err := client.AppendLog(context.Background(), "token", domain.LogEvent{
		RoomSlug:  "room-1",
		EventType: "gaze_away",
	})
	assert.Error(t, err)
}
