package syncclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almonsour13/mango-lens/internal/model"
)

func envelope(data any) map[string]any {
	return map[string]any{"success": true, "data": data}
}

func errorEnvelope(code string, message string) map[string]any {
	return map[string]any{
		"success": false,
		"error":   map[string]string{"code": code, "message": message},
	}
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch r.URL.Path {
		case "/api/v1/auth/login":
			var req model.LoginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			if req.Password != "correct" {
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(errorEnvelope("UNAUTHORIZED", "Invalid credentials"))
				return
			}
			json.NewEncoder(w).Encode(envelope(model.TokenPair{
				AccessToken:  "issued-access-token",
				RefreshToken: "issued-refresh-token",
			}))
		case "/api/v1/auth/me":
			assert.Equal(t, "Bearer issued-access-token", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(envelope(model.AuthUser{
				ID: "user-1", FName: "Maria", LName: "Santos", Email: "maria@example.com", Role: "user",
			}))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)

	t.Run("caches the token and returns credentials", func(t *testing.T) {
		creds, err := client.Login(context.Background(), "maria@example.com", "correct")

		require.NoError(t, err)
		assert.Equal(t, "user-1", creds.UserID)
		assert.Equal(t, "issued-access-token", creds.Token)
		assert.Equal(t, "issued-access-token", client.Token())
	})

	t.Run("bad credentials map to ErrUnauthorized", func(t *testing.T) {
		_, err := client.Login(context.Background(), "maria@example.com", "wrong")

		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestClient_SubmitScan(t *testing.T) {
	var received model.SaveScanRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/scans", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")

		if received.PendingID == "already-saved" {
			json.NewEncoder(w).Encode(envelope(model.SaveScanResponse{
				Message: "Scan was already saved.", ImageID: "img-old", Duplicate: true,
			}))
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(envelope(model.SaveScanResponse{
			Message: "Analysis result and image saved successfully.", ImageID: "img-new",
		}))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)
	client.SetToken("token")

	t.Run("new scan", func(t *testing.T) {
		result, err := client.SubmitScan(context.Background(), model.SaveScanRequest{
			UserID:    "user-1",
			PendingID: "pending-1",
			ScanResult: model.ScanResult{
				TreeCode: "M-01", OriginalImage: "x", AnalyzedImage: "x",
				BoundingBoxes: []model.BoundingBox{}, Diseases: []model.DetectedDisease{},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, "img-new", result.ImageID)
		assert.False(t, result.Duplicate)
		assert.Equal(t, "pending-1", received.PendingID)
	})

	t.Run("duplicate acknowledgement", func(t *testing.T) {
		result, err := client.SubmitScan(context.Background(), model.SaveScanRequest{
			PendingID: "already-saved",
		})

		require.NoError(t, err)
		assert.True(t, result.Duplicate)
		assert.Equal(t, "img-old", result.ImageID)
	})
}

func TestClient_TrashOps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/api/v1/trash" && r.Method == http.MethodGet:
			json.NewEncoder(w).Encode(envelope([]model.TrashEntry{
				{TrashID: "trash-1", Type: model.TrashTypeTree, TreeCode: "M-01"},
				{TrashID: "trash-2", Type: model.TrashTypeImage, TreeCode: "N/A"},
			}))
		case r.URL.Path == "/api/v1/trash/actions" && r.Method == http.MethodPost:
			var req model.TrashActionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			results := make([]model.TrashActionResult, 0, len(req.TrashIDs))
			for _, id := range req.TrashIDs {
				results = append(results, model.TrashActionResult{TrashID: id, Status: "restored"})
			}
			json.NewEncoder(w).Encode(envelope(model.TrashActionResponse{Results: results}))
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(errorEnvelope("NOT_FOUND", "no such route"))
		}
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)
	client.SetToken("token")

	t.Run("list", func(t *testing.T) {
		entries, err := client.ListTrash(context.Background())

		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "N/A", entries[1].TreeCode)
	})

	t.Run("batch action", func(t *testing.T) {
		results, err := client.TrashAction(context.Background(), model.TrashActionRestore, []string{"trash-1", "trash-2"})

		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "restored", results[0].Status)
	})
}

func TestClient_RemoteErrorSurfacesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(errorEnvelope("CONFLICT", "tree is in the trash"))
	}))
	defer server.Close()

	client := New(server.URL, 5*time.Second)
	client.SetToken("token")

	_, err := client.SubmitScan(context.Background(), model.SaveScanRequest{PendingID: "pending-1"})

	var remote *RemoteError
	require.ErrorAs(t, err, &remote)
	assert.Equal(t, http.StatusConflict, remote.StatusCode)
	assert.Equal(t, "tree is in the trash", remote.Message)
}
