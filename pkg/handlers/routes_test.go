package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-board-backend/pkg/auth"
	"task-board-backend/pkg/config"
	"task-board-backend/pkg/core"
	"task-board-backend/pkg/database"
	"task-board-backend/pkg/handlers"
	"task-board-backend/pkg/utils"
)

type testServer struct {
	t      *testing.T
	server *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		Environment:     "test",
		JWTSecret:       "test-secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: time.Hour,
		AllowedOrigins:  []string{"*"},
	}
	logger := log.New()
	logger.SetOutput(io.Discard)

	svc := core.NewService(database.NewMemoryStore(), auth.NewPasswordManager(), logger)
	jwtService := utils.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	router := handlers.NewRouter(cfg, svc, jwtService, logger)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testServer{t: t, server: server}
}

// do sends a request and decodes the response envelope.
func (s *testServer) do(method, path, token string, body interface{}) (int, map[string]interface{}) {
	s.t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return resp.StatusCode, nil
	}
	var envelope map[string]interface{}
	require.NoError(s.t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp.StatusCode, envelope
}

func (s *testServer) register(username string) string {
	s.t.Helper()
	status, body := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"password": "correct-horse-battery",
		"name":     username,
	})
	require.Equal(s.t, http.StatusCreated, status)
	data := body["data"].(map[string]interface{})
	return data["access_token"].(string)
}

func dataOf(body map[string]interface{}) map[string]interface{} {
	return body["data"].(map[string]interface{})
}

func idOf(body map[string]interface{}) int64 {
	return int64(dataOf(body)["id"].(float64))
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusCreated, status)
	data := dataOf(body)
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])

	// Duplicate registration conflicts.
	status, _ = s.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
		"password": "another-password",
	})
	assert.Equal(t, http.StatusConflict, status)

	// Login with wrong credentials is a 401.
	status, _ = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "alice",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, status)

	refresh := dataOf(body)["refresh_token"].(string)
	status, body = s.do(http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": refresh,
	})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, dataOf(body)["access_token"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(http.MethodGet, "/api/boards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = s.do(http.MethodGet, "/api/users/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUsersMe(t *testing.T) {
	s := newTestServer(t)
	token := s.register("alice")

	status, body := s.do(http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", dataOf(body)["username"])

	status, body = s.do(http.MethodPatch, "/api/users/me", token, map[string]string{"name": "Alice A."})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice A.", dataOf(body)["name"])
}

func TestBoardLifecycle(t *testing.T) {
	s := newTestServer(t)
	ownerToken := s.register("owner")
	outsiderToken := s.register("outsider")

	status, body := s.do(http.MethodPost, "/api/boards", ownerToken, map[string]string{"name": "project"})
	require.Equal(t, http.StatusCreated, status)
	boardID := idOf(body)

	boardPath := fmt.Sprintf("/api/boards/%d", boardID)

	// Outsiders are forbidden, not not-found.
	status, _ = s.do(http.MethodGet, boardPath, outsiderToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodGet, "/api/boards/9999", ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = s.do(http.MethodPatch, boardPath, ownerToken, map[string]string{"name": "renamed"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "renamed", dataOf(body)["name"])

	status, _ = s.do(http.MethodDelete, boardPath, ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(http.MethodGet, boardPath, ownerToken, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMembershipEndpoints(t *testing.T) {
	s := newTestServer(t)
	ownerToken := s.register("owner")
	memberToken := s.register("member")

	_, body := s.do(http.MethodGet, "/api/users/me", memberToken, nil)
	memberID := idOf(body)

	_, body = s.do(http.MethodPost, "/api/boards", ownerToken, map[string]string{"name": "project"})
	boardID := idOf(body)
	membersPath := fmt.Sprintf("/api/boards/%d/members", boardID)

	status, _ := s.do(http.MethodPost, membersPath, ownerToken, map[string]int64{"user_id": memberID})
	assert.Equal(t, http.StatusCreated, status)

	// Re-adding conflicts.
	status, _ = s.do(http.MethodPost, membersPath, ownerToken, map[string]int64{"user_id": memberID})
	assert.Equal(t, http.StatusConflict, status)

	status, body = s.do(http.MethodGet, membersPath, ownerToken, nil)
	require.Equal(t, http.StatusOK, status)
	members := dataOf(body)["members"].([]interface{})
	require.Len(t, members, 2)
	assert.Equal(t, "owner", members[0].(map[string]interface{})["username"])

	// Members can see the board but not administer it.
	status, _ = s.do(http.MethodGet, fmt.Sprintf("/api/boards/%d", boardID), memberToken, nil)
	assert.Equal(t, http.StatusOK, status)
	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/boards/%d", boardID), memberToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", membersPath, memberID), ownerToken, nil)
	assert.Equal(t, http.StatusNoContent, status)

	// Removing a non-member conflicts instead of silently succeeding.
	status, _ = s.do(http.MethodDelete, fmt.Sprintf("%s/%d", membersPath, memberID), ownerToken, nil)
	assert.Equal(t, http.StatusConflict, status)
}

func TestColumnAndTaskEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.register("owner")

	_, body := s.do(http.MethodPost, "/api/boards", token, map[string]string{"name": "project"})
	boardID := idOf(body)
	columnsPath := fmt.Sprintf("/api/boards/%d/columns", boardID)

	status, body := s.do(http.MethodPost, columnsPath, token, map[string]interface{}{
		"name": "todo", "position": 0,
	})
	require.Equal(t, http.StatusCreated, status)
	todoID := idOf(body)

	status, body = s.do(http.MethodPost, columnsPath, token, map[string]interface{}{
		"name": "doing", "position": 1,
	})
	require.Equal(t, http.StatusCreated, status)
	doingID := idOf(body)

	// Occupied position is a 409.
	status, _ = s.do(http.MethodPost, columnsPath, token, map[string]interface{}{
		"name": "dup", "position": 0,
	})
	assert.Equal(t, http.StatusConflict, status)

	tasksPath := fmt.Sprintf("/api/columns/%d/tasks", todoID)
	status, body = s.do(http.MethodPost, tasksPath, token, map[string]interface{}{
		"name": "draft", "position": 0,
	})
	require.Equal(t, http.StatusCreated, status)
	taskID := idOf(body)

	// Move and rename in one patch, then read the audit trail.
	taskPath := fmt.Sprintf("/api/tasks/%d", taskID)
	status, body = s.do(http.MethodPatch, taskPath, token, map[string]interface{}{
		"column_id": doingID,
		"name":      "final",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "final", dataOf(body)["name"])

	status, body = s.do(http.MethodGet, taskPath+"/logs", token, nil)
	require.Equal(t, http.StatusOK, status)
	logs := dataOf(body)["logs"].([]interface{})
	require.Len(t, logs, 2)
	assert.Equal(t, "Moved from todo to doing", logs[0].(map[string]interface{})["content"])
	assert.Equal(t, "~~draft~~ final", logs[1].(map[string]interface{})["content"])

	status, _ = s.do(http.MethodDelete, taskPath, token, nil)
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = s.do(http.MethodDelete, fmt.Sprintf("/api/columns/%d", todoID), token, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestTaskListFilterQuery(t *testing.T) {
	s := newTestServer(t)
	token := s.register("owner")

	_, body := s.do(http.MethodGet, "/api/users/me", token, nil)
	ownerID := idOf(body)

	_, body = s.do(http.MethodPost, "/api/boards", token, map[string]string{"name": "project"})
	boardID := idOf(body)
	_, body = s.do(http.MethodPost, fmt.Sprintf("/api/boards/%d/columns", boardID), token, map[string]interface{}{
		"name": "todo", "position": 0,
	})
	columnID := idOf(body)

	tasksPath := fmt.Sprintf("/api/columns/%d/tasks", columnID)
	status, _ := s.do(http.MethodPost, tasksPath, token, map[string]interface{}{
		"name": "mine", "position": 0, "assignee_id": ownerID,
	})
	require.Equal(t, http.StatusCreated, status)
	status, _ = s.do(http.MethodPost, tasksPath, token, map[string]interface{}{
		"name": "loose", "position": 1,
	})
	require.Equal(t, http.StatusCreated, status)

	status, body = s.do(http.MethodGet, tasksPath+"?assignee_id=null", token, nil)
	require.Equal(t, http.StatusOK, status)
	tasks := dataOf(body)["tasks"].([]interface{})
	require.Len(t, tasks, 1)
	assert.Equal(t, "loose", tasks[0].(map[string]interface{})["name"])

	status, body = s.do(http.MethodGet, fmt.Sprintf("%s?assignee_id=%d", tasksPath, ownerID), token, nil)
	require.Equal(t, http.StatusOK, status)
	tasks = dataOf(body)["tasks"].([]interface{})
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].(map[string]interface{})["name"])

	status, _ = s.do(http.MethodGet, tasksPath+"?position=abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	status, body := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", dataOf(body)["status"])
}
