package board

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/stickers/internal/auth"
	"github.com/inamate/stickers/internal/engine"
)

// asUser stands in for the JWT middleware.
func asUser(userID string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := auth.WithUser(r.Context(), &auth.User{ID: userID, DisplayName: userID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newRouter(svc *Service, userID string) *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(asUser(userID))
	NewHandler(svc).Register(api)
	return r
}

func do(t *testing.T, h http.Handler, method, path string, body any, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createBoard(t *testing.T, h http.Handler, body createRequest) Board {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/boards", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var b Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &b))
	return b
}

func TestHandlerCreate(t *testing.T) {
	svc, _ := newTestService(t)
	owner := newRouter(svc, "owner")

	b := createBoard(t, owner, createRequest{Name: "Fridge", Sample: true})
	assert.NotEmpty(t, b.ID)
	assert.Equal(t, "owner", b.OwnerID)

	rec := do(t, owner, http.MethodPost, "/api/boards", createRequest{}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, owner, http.MethodGet, "/api/boards/"+b.ID, nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, owner, http.MethodGet, "/api/boards/board_missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerPasscode(t *testing.T) {
	svc, _ := newTestService(t)
	owner := newRouter(svc, "owner")
	guest := newRouter(svc, "guest")

	b := createBoard(t, owner, createRequest{Name: "Locked", Passcode: "open sesame"})
	assert.True(t, b.Protected)

	rec := do(t, guest, http.MethodGet, "/api/boards/"+b.ID+"/snapshot", nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, guest, http.MethodPost, "/api/boards/"+b.ID+"/join", joinRequest{Passcode: "nope"}, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, guest, http.MethodPost, "/api/boards/"+b.ID+"/join", joinRequest{Passcode: "open sesame"}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, guest, http.MethodGet, "/api/boards/"+b.ID+"/snapshot", nil, map[string]string{PasscodeHeader: "open sesame"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, guest, http.MethodDelete, "/api/boards/"+b.ID, nil, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, owner, http.MethodDelete, "/api/boards/"+b.ID, nil, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandlerSnapshotETag(t *testing.T) {
	svc, _ := newTestService(t)
	owner := newRouter(svc, "owner")
	b := createBoard(t, owner, createRequest{Name: "Cached", Sample: true})

	rec := do(t, owner, http.MethodGet, "/api/boards/"+b.ID+"/snapshot", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Contains(t, doc, "stickers")

	rec = do(t, owner, http.MethodGet, "/api/boards/"+b.ID+"/snapshot", nil, map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestHandlerHitAndRender(t *testing.T) {
	svc, _ := newTestService(t)
	owner := newRouter(svc, "owner")
	b := createBoard(t, owner, createRequest{Name: "Sample", Sample: true})
	doc, err := svc.Document(context.Background(), b.ID)
	require.NoError(t, err)

	rec := do(t, owner, http.MethodPost, "/api/boards/"+b.ID+"/hit", hitRequest{X: 250, Y: 350}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hit engine.HitTestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hit))
	assert.Equal(t, doc.Order[0], hit.StickerID)

	rec = do(t, owner, http.MethodGet, "/api/boards/"+b.ID+"/render", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var commands []engine.DrawCommand
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &commands))
	require.Len(t, commands, 2)
	assert.Equal(t, doc.Order[0], commands[0].StickerID)
	assert.Equal(t, doc.Order[1], commands[1].StickerID)
	assert.Len(t, commands[1].ColorMatrix, 20)
}
