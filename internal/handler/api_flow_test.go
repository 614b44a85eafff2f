package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almonsour13/mango-lens/internal/config"
	"github.com/almonsour13/mango-lens/internal/handler"
	"github.com/almonsour13/mango-lens/internal/middleware"
	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/internal/router"
	"github.com/almonsour13/mango-lens/internal/service"
)

// The stubs below are just enough in-memory store to push requests
// through the real router, middleware chain and handlers.

type stubUserStore struct {
	mu    sync.Mutex
	users map[string]model.User
}

func (s *stubUserStore) FindByID(ctx context.Context, id string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	return u, nil
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}

func (s *stubUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := s.FindByEmail(ctx, email)
	return err == nil, nil
}

func (s *stubUserStore) Create(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}

func (s *stubUserStore) UpdateProfile(ctx context.Context, u model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.users[u.ID]
	existing.FName, existing.LName, existing.Email = u.FName, u.LName, u.Email
	s.users[u.ID] = existing
	return nil
}

func (s *stubUserStore) UpdatePassword(ctx context.Context, userID string, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.PasswordHash = passwordHash
	s.users[userID] = u
	return nil
}

func (s *stubUserStore) List(ctx context.Context) ([]model.AuthUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.AuthUser{}
	for _, u := range s.users {
		out = append(out, model.AuthUser{ID: u.ID, FName: u.FName, LName: u.LName, Email: u.Email, Role: u.Role})
	}
	return out, nil
}

type stubTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (s *stubTokenStore) Store(ctx context.Context, token string, userID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s *stubTokenStore) Validate(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	if !ok {
		return "", model.ErrTokenNotFound
	}
	return userID, nil
}

func (s *stubTokenStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

func (s *stubTokenStore) RevokeAllForUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, owner := range s.tokens {
		if owner == userID {
			delete(s.tokens, token)
		}
	}
	return nil
}

type stubTreeStore struct {
	mu    sync.Mutex
	trees map[string]model.Tree
}

func (s *stubTreeStore) Create(ctx context.Context, tree model.Tree) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[tree.ID] = tree
	return nil
}

func (s *stubTreeStore) FindByID(ctx context.Context, id string) (model.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tree, ok := s.trees[id]
	if !ok {
		return model.Tree{}, model.ErrTreeNotFound
	}
	return tree, nil
}

func (s *stubTreeStore) FindByCode(ctx context.Context, userID string, treeCode string) (model.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tree := range s.trees {
		if tree.UserID == userID && tree.TreeCode == treeCode {
			return tree, nil
		}
	}
	return model.Tree{}, model.ErrTreeNotFound
}

func (s *stubTreeStore) ExistsByCode(ctx context.Context, userID string, treeCode string) (bool, error) {
	_, err := s.FindByCode(ctx, userID, treeCode)
	return err == nil, nil
}

func (s *stubTreeStore) ListActive(ctx context.Context, userID string) ([]model.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Tree{}
	for _, tree := range s.trees {
		if tree.UserID == userID && tree.Status == model.StatusActive {
			out = append(out, tree)
		}
	}
	return out, nil
}

func (s *stubTreeStore) ListAll(ctx context.Context) ([]model.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Tree{}
	for _, tree := range s.trees {
		out = append(out, tree)
	}
	return out, nil
}

func (s *stubTreeStore) SetStatus(ctx context.Context, id string, status int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tree, ok := s.trees[id]
	if !ok {
		return model.ErrTreeNotFound
	}
	tree.Status = status
	s.trees[id] = tree
	return nil
}

func (s *stubTreeStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[id]; !ok {
		return model.ErrTreeNotFound
	}
	delete(s.trees, id)
	return nil
}

type stubTrashStore struct {
	mu      sync.Mutex
	entries map[string]model.TrashEntry
}

func (s *stubTrashStore) Create(ctx context.Context, entry model.TrashEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.TrashID] = entry
	return nil
}

func (s *stubTrashStore) FindByID(ctx context.Context, trashID string) (model.TrashEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[trashID]
	if !ok {
		return model.TrashEntry{}, model.ErrTrashEntryNotFound
	}
	return entry, nil
}

func (s *stubTrashStore) FindByItem(ctx context.Context, itemType int, itemID string) (model.TrashEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, entry := range s.entries {
		if entry.Type == itemType && entry.ItemID == itemID {
			return entry, nil
		}
	}
	return model.TrashEntry{}, model.ErrTrashEntryNotFound
}

func (s *stubTrashStore) List(ctx context.Context, userID string) ([]model.TrashEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.TrashEntry{}
	for _, entry := range s.entries {
		if entry.UserID == userID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *stubTrashStore) Delete(ctx context.Context, trashID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, trashID)
	return nil
}

type stubImageStore struct{}

func (stubImageStore) FindByID(ctx context.Context, id string) (model.Image, error) {
	return model.Image{}, model.ErrImageNotFound
}

func (stubImageStore) FindByPendingID(ctx context.Context, pendingID string) (model.Image, error) {
	return model.Image{}, model.ErrImageNotFound
}

func (stubImageStore) ListActive(ctx context.Context, userID string) ([]model.ImageDetails, error) {
	return []model.ImageDetails{}, nil
}

func (stubImageStore) SetStatus(ctx context.Context, id string, status int) error {
	return model.ErrImageNotFound
}

func (stubImageStore) Delete(ctx context.Context, id string) error {
	return model.ErrImageNotFound
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:       "0",
		JWTSecret:        "test-secret",
		JWTAccessTTL:     15 * time.Minute,
		JWTRefreshTTL:    24 * time.Hour,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     1000,
		AuthRateLimitRPM: 1000,
		RequestTimeout:   10 * time.Second,
		MaxScanBodySize:  32 << 20,
	}

	users := &stubUserStore{users: map[string]model.User{}}
	tokens := &stubTokenStore{tokens: map[string]string{}}
	trees := &stubTreeStore{trees: map[string]model.Tree{}}
	trash := &stubTrashStore{entries: map[string]model.TrashEntry{}}
	images := stubImageStore{}

	authService := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, users, tokens)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	mux := router.New(cfg, authMiddleware, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		User:  handler.NewUserHandler(authService),
		Tree:  handler.NewTreeHandler(service.NewTreeService(trees)),
		Scan:  handler.NewScanHandler(service.NewScanService(nil, images, trees)),
		Image: handler.NewImageHandler(service.NewImageService(images, nil)),
		Trash: handler.NewTrashHandler(service.NewTrashService(trash, trees, images)),
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, token string, payload any) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func getJSON(t *testing.T, url string, token string) *http.Response {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, url, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, target))
}

func registerAndLogin(t *testing.T, server *httptest.Server) string {
	t.Helper()

	resp := postJSON(t, server.URL+"/api/v1/auth/register", "", model.RegisterRequest{
		FName: "Maria", LName: "Santos", Email: "maria@example.com", Password: "correct-horse",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, server.URL+"/api/v1/auth/login", "", model.LoginRequest{
		Email: "maria@example.com", Password: "correct-horse",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var pair model.TokenPair
	decodeData(t, resp, &pair)
	require.NotEmpty(t, pair.AccessToken)
	return pair.AccessToken
}

func TestAPI_AuthFlow(t *testing.T) {
	server := newTestServer(t)
	token := registerAndLogin(t, server)

	t.Run("me returns the account", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/v1/auth/me", token)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var me model.AuthUser
		decodeData(t, resp, &me)
		assert.Equal(t, "maria@example.com", me.Email)
		assert.Equal(t, "user", me.Role)
	})

	t.Run("protected routes refuse anonymous requests", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/v1/trees", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("admin routes refuse plain users", func(t *testing.T) {
		resp := getJSON(t, server.URL+"/api/v1/admin/trees", token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAPI_TreeAndTrashFlow(t *testing.T) {
	server := newTestServer(t)
	token := registerAndLogin(t, server)

	resp := postJSON(t, server.URL+"/api/v1/trees", token, model.AddTreeRequest{
		TreeCode: "M-01", Description: "north orchard",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tree model.Tree
	decodeData(t, resp, &tree)
	require.NotEmpty(t, tree.ID)

	t.Run("duplicate code is a conflict", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/v1/trees", token, model.AddTreeRequest{TreeCode: "M-01"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("trash hides the tree, restore brings it back", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/v1/trash", token, model.MoveToTrashRequest{TreeID: tree.ID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var entry model.TrashEntry
		decodeData(t, resp, &entry)
		assert.Equal(t, model.TrashTypeTree, entry.Type)
		assert.Equal(t, "M-01", entry.TreeCode)

		listResp := getJSON(t, server.URL+"/api/v1/trees", token)
		var active []model.Tree
		decodeData(t, listResp, &active)
		assert.Empty(t, active)

		actionResp := postJSON(t, server.URL+"/api/v1/trash/actions", token, model.TrashActionRequest{
			Action:   model.TrashActionRestore,
			TrashIDs: []string{entry.TrashID},
		})
		require.Equal(t, http.StatusOK, actionResp.StatusCode)

		var action model.TrashActionResponse
		decodeData(t, actionResp, &action)
		require.Len(t, action.Results, 1)
		assert.Equal(t, "restored", action.Results[0].Status)

		listResp = getJSON(t, server.URL+"/api/v1/trees", token)
		decodeData(t, listResp, &active)
		assert.Len(t, active, 1)
	})

	t.Run("permanent delete is final and replays as a no-op", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/v1/trash", token, model.MoveToTrashRequest{TreeID: tree.ID})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var entry model.TrashEntry
		decodeData(t, resp, &entry)

		for i := 0; i < 2; i++ {
			actionResp := postJSON(t, server.URL+"/api/v1/trash/actions", token, model.TrashActionRequest{
				Action:   model.TrashActionDeletePermanent,
				TrashIDs: []string{entry.TrashID},
			})
			require.Equal(t, http.StatusOK, actionResp.StatusCode)

			var action model.TrashActionResponse
			decodeData(t, actionResp, &action)
			require.Len(t, action.Results, 1)
			assert.Equal(t, "deleted", action.Results[0].Status, "attempt %d", i)
		}
	})

	t.Run("move requires exactly one target", func(t *testing.T) {
		resp := postJSON(t, server.URL+"/api/v1/trash", token, model.MoveToTrashRequest{})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp = postJSON(t, server.URL+"/api/v1/trash", token, model.MoveToTrashRequest{TreeID: "a", ImageID: "b"})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}
