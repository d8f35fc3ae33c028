package simpletask

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/taskbridge/internal/registry"
)

func testTenant() registry.Definition {
	return registry.Definition{
		Name:      "Payments Platform",
		Key:       "payments",
		APIKey:    "sk-test-key",
		ProjectID: "proj-123",
	}
}

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return client, srv
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorContains(t, err, "base URL is required")
}

func TestClient_AuthAndPath(t *testing.T) {
	var gotAuth, gotPath, gotAccept string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		_ = json.NewEncoder(w).Encode([]Task{})
	}))

	_, err := client.ListTasks(context.Background(), testTenant())
	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test-key", gotAuth)
	assert.Equal(t, "/projects/proj-123/tasks", gotPath)
	assert.Equal(t, "application/json", gotAccept)
}

func TestClient_GetTask(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/projects/proj-123/tasks/t1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(Task{ID: "t1", Title: "Fix login", Status: StatusTodo})
	}))

	task, err := client.GetTask(context.Background(), testTenant(), "t1")
	require.NoError(t, err)
	assert.Equal(t, "Fix login", task.Title)
}

func TestClient_UpstreamErrorPassesThrough(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"task not found"}`, http.StatusNotFound)
	}))

	_, err := client.GetTask(context.Background(), testTenant(), "missing")
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusNotFound, upstream.Status)
	assert.Contains(t, upstream.Body, "task not found")
}

func TestClient_NoRetryOnServerError(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := client.ListTasks(context.Background(), testTenant())
	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, int32(1), calls.Load(), "failed calls must not be retried")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client, err := NewClient(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	require.NoError(t, err)

	_, err = client.ListTasks(context.Background(), testTenant())
	var timeout *TimeoutError
	assert.ErrorAs(t, err, &timeout)
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client, err := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.ListTasks(context.Background(), testTenant())
	var transport *TransportError
	assert.ErrorAs(t, err, &transport)
}

func TestClient_CreateTask(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body CreateTaskRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "New task", body.Title)
		assert.Equal(t, PriorityHigh, body.Priority)
		_ = json.NewEncoder(w).Encode(Task{ID: "t9", Title: body.Title})
	}))

	task, err := client.CreateTask(context.Background(), testTenant(), CreateTaskRequest{
		Title:    "New task",
		Priority: PriorityHigh,
	})
	require.NoError(t, err)
	assert.Equal(t, "t9", task.ID)
}

func TestClient_UpdateTaskSendsOnlySetFields(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var raw map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		assert.Equal(t, map[string]any{"status": "blocked"}, raw)
		_ = json.NewEncoder(w).Encode(Task{ID: "t1", Status: StatusBlocked})
	}))

	task, err := client.UpdateTaskStatus(context.Background(), testTenant(), "t1", StatusBlocked)
	require.NoError(t, err)
	assert.Equal(t, StatusBlocked, task.Status)
}

func TestClient_UpdateTaskClearsDueDate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		got, ok := raw["due_date"]
		require.True(t, ok, "due_date must be present in the body")
		assert.Equal(t, "null", string(got))
		_ = json.NewEncoder(w).Encode(Task{ID: "t1"})
	}))

	_, err := client.UpdateTask(context.Background(), testTenant(), "t1", UpdateTaskRequest{ClearDueDate: true})
	require.NoError(t, err)
}

func TestUpdateTaskRequest_MarshalDueDate(t *testing.T) {
	t.Run("set date serialized", func(t *testing.T) {
		due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		data, err := json.Marshal(UpdateTaskRequest{DueDate: &due})
		require.NoError(t, err)
		assert.Contains(t, string(data), `"due_date":"2026-09-01T00:00:00Z"`)
	})

	t.Run("unset date omitted", func(t *testing.T) {
		data, err := json.Marshal(UpdateTaskRequest{})
		require.NoError(t, err)
		assert.NotContains(t, string(data), "due_date")
	})

	t.Run("clear wins over a set date", func(t *testing.T) {
		due := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		data, err := json.Marshal(UpdateTaskRequest{DueDate: &due, ClearDueDate: true})
		require.NoError(t, err)
		assert.Contains(t, string(data), `"due_date":null`)
	})
}

func TestClient_CommentRoutes(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet:
			assert.Equal(t, "/projects/proj-123/tasks/t1/comments", r.URL.Path)
			_ = json.NewEncoder(w).Encode([]Comment{{ID: "c1"}})
		case r.Method == http.MethodPut:
			assert.Equal(t, "/comments/c1", r.URL.Path)
			_ = json.NewEncoder(w).Encode(Comment{ID: "c1", Content: "edited"})
		case r.Method == http.MethodDelete:
			assert.Equal(t, "/comments/c1", r.URL.Path)
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	ctx := context.Background()
	tenant := testTenant()

	comments, err := client.ListComments(ctx, tenant, "t1")
	require.NoError(t, err)
	require.Len(t, comments, 1)

	updated, err := client.UpdateComment(ctx, tenant, "c1", "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, client.DeleteComment(ctx, tenant, "c1"))
}

func TestErrorUnwrapping(t *testing.T) {
	inner := errors.New("boom")
	assert.ErrorIs(t, &TransportError{Err: inner}, inner)
	assert.ErrorIs(t, &TimeoutError{Err: inner}, inner)
}
