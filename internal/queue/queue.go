// Package queue manages the agent's offline scan queue. Items live in
// the local store until a user-triggered flush pushes them to the
// server; the queue never flushes on its own.
package queue

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/almonsour13/mango-lens/internal/localstore"
	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/pkg/apierror"
)

// Submitter pushes one queued scan to the server.
type Submitter interface {
	SubmitScan(ctx context.Context, req model.SaveScanRequest) (model.SaveScanResponse, error)
}

// PendingStore is the slice of the local store the queue needs.
type PendingStore interface {
	Put(ctx context.Context, item model.PendingItem) error
	Get(ctx context.Context, pendingID string) (model.PendingItem, error)
	List(ctx context.Context, userID string) ([]model.PendingItem, error)
	Delete(ctx context.Context, pendingID string) error
}

type Manager struct {
	store     PendingStore
	submitter Submitter
}

func NewManager(store PendingStore, submitter Submitter) *Manager {
	return &Manager{store: store, submitter: submitter}
}

// Enqueue validates the capture and persists it with a fresh pendingID
// before returning. The ID is the item's identity for every later
// operation, including server-side dedup.
func (m *Manager) Enqueue(ctx context.Context, userID string, treeCode string, imageData string) (model.PendingItem, error) {
	userID = strings.TrimSpace(userID)
	treeCode = strings.TrimSpace(treeCode)

	switch {
	case userID == "":
		return model.PendingItem{}, apierror.BadRequest("userID is required", "userID")
	case treeCode == "":
		return model.PendingItem{}, apierror.BadRequest("treeCode is required", "treeCode")
	case strings.TrimSpace(imageData) == "":
		return model.PendingItem{}, apierror.BadRequest("imageData is required", "imageData")
	}

	item := model.PendingItem{
		PendingID: uuid.NewString(),
		UserID:    userID,
		TreeCode:  treeCode,
		ImageData: imageData,
		CreatedAt: time.Now().UTC(),
	}

	if err := m.store.Put(ctx, item); err != nil {
		return model.PendingItem{}, err
	}
	return item, nil
}

// List returns the queued items oldest first.
func (m *Manager) List(ctx context.Context, userID string) ([]model.PendingItem, error) {
	return m.store.List(ctx, userID)
}

// Remove drops an item after successful submission. Removing an item
// that is already gone is fine.
func (m *Manager) Remove(ctx context.Context, pendingID string) error {
	return m.store.Delete(ctx, pendingID)
}

// Discard drops an item the user no longer wants uploaded.
func (m *Manager) Discard(ctx context.Context, pendingID string) error {
	_, err := m.store.Get(ctx, pendingID)
	if errors.Is(err, localstore.ErrNotFound) {
		return apierror.NotFound("no queued scan with that ID", pendingID)
	}
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, pendingID)
}

// FlushOutcome reports what happened to one queued item during a flush.
type FlushOutcome struct {
	PendingID string
	ImageID   string
	Message   string
	Duplicate bool
	Err       error
}

// Flush submits every queued item in order. An item leaves the queue
// only when the server acknowledges it; failed items stay queued with
// the server's message attached. A duplicate acknowledgement counts as
// success since the scan is already stored.
func (m *Manager) Flush(ctx context.Context, userID string) ([]FlushOutcome, error) {
	items, err := m.store.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcomes := make([]FlushOutcome, 0, len(items))
	for _, item := range items {
		outcome := FlushOutcome{PendingID: item.PendingID}

		result, err := m.submitter.SubmitScan(ctx, model.SaveScanRequest{
			UserID:    item.UserID,
			PendingID: item.PendingID,
			ScanResult: model.ScanResult{
				TreeCode:      item.TreeCode,
				OriginalImage: item.ImageData,
				AnalyzedImage: item.ImageData,
				BoundingBoxes: []model.BoundingBox{},
				Diseases:      []model.DetectedDisease{},
			},
		})
		if err != nil {
			outcome.Err = err
			outcomes = append(outcomes, outcome)
			continue
		}

		outcome.ImageID = result.ImageID
		outcome.Message = result.Message
		outcome.Duplicate = result.Duplicate
		if err := m.store.Delete(ctx, item.PendingID); err != nil {
			outcome.Err = err
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes, nil
}
