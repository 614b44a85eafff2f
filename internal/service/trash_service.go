package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/pkg/apierror"
)

// TrashStore is the slice of the trash repository the lifecycle manager
// needs.
type TrashStore interface {
	Create(ctx context.Context, entry model.TrashEntry) error
	FindByID(ctx context.Context, trashID string) (model.TrashEntry, error)
	FindByItem(ctx context.Context, itemType int, itemID string) (model.TrashEntry, error)
	List(ctx context.Context, userID string) ([]model.TrashEntry, error)
	Delete(ctx context.Context, trashID string) error
}

// TrashService drives the soft-delete lifecycle for trees and images:
// Active -> Trashed -> (Restored | PermanentlyDeleted).
type TrashService struct {
	trash  TrashStore
	trees  TreeStore
	images ImageStore
}

func NewTrashService(trash TrashStore, trees TreeStore, images ImageStore) *TrashService {
	return &TrashService{trash: trash, trees: trees, images: images}
}

// MoveToTrash transitions an active entity into the trash. Moving an
// already-trashed entity returns its existing entry instead of failing.
func (s *TrashService) MoveToTrash(ctx context.Context, userID string, itemType int, itemID string) (model.TrashEntry, error) {
	if itemType != model.TrashTypeTree && itemType != model.TrashTypeImage {
		return model.TrashEntry{}, apierror.BadRequest("unknown trash item type", "")
	}
	if itemID == "" {
		return model.TrashEntry{}, apierror.BadRequest("item id is required", "")
	}

	if existing, err := s.trash.FindByItem(ctx, itemType, itemID); err == nil {
		return existing, nil
	} else if !errors.Is(err, model.ErrTrashEntryNotFound) {
		return model.TrashEntry{}, err
	}

	entry := model.TrashEntry{
		TrashID:   uuid.NewString(),
		UserID:    userID,
		Type:      itemType,
		ItemID:    itemID,
		DeletedAt: time.Now().UTC(),
	}

	switch itemType {
	case model.TrashTypeTree:
		tree, err := s.trees.FindByID(ctx, itemID)
		if err != nil {
			return model.TrashEntry{}, err
		}
		if tree.UserID != userID {
			return model.TrashEntry{}, model.ErrForbidden
		}

		if err := s.trees.SetStatus(ctx, itemID, model.StatusTrashed); err != nil {
			return model.TrashEntry{}, err
		}
		entry.TreeCode = tree.TreeCode

	case model.TrashTypeImage:
		img, err := s.images.FindByID(ctx, itemID)
		if err != nil {
			return model.TrashEntry{}, err
		}
		if img.UserID != userID {
			return model.TrashEntry{}, model.ErrForbidden
		}

		if err := s.images.SetStatus(ctx, itemID, model.StatusTrashed); err != nil {
			return model.TrashEntry{}, err
		}
		entry.TreeCode = "N/A"
	}

	if err := s.trash.Create(ctx, entry); err != nil {
		// Roll the status flip back so the entity does not vanish from
		// both the active and trash listings.
		s.rollbackStatus(ctx, itemType, itemID)
		return model.TrashEntry{}, err
	}

	return entry, nil
}

func (s *TrashService) List(ctx context.Context, userID string) ([]model.TrashEntry, error) {
	return s.trash.List(ctx, userID)
}

// HandleAction applies a restore or permanent-delete to one or more trash
// entries. Entries are processed independently: one failure never rolls
// back or aborts the rest.
func (s *TrashService) HandleAction(ctx context.Context, userID string, action int, trashIDs []string) ([]model.TrashActionResult, error) {
	if action != model.TrashActionRestore && action != model.TrashActionDeletePermanent {
		return nil, apierror.BadRequest("unknown trash action", "")
	}
	if len(trashIDs) == 0 {
		return nil, apierror.BadRequest("at least one trashID is required", "trashIDs")
	}

	results := make([]model.TrashActionResult, 0, len(trashIDs))
	for _, trashID := range trashIDs {
		result := s.applyAction(ctx, userID, action, trashID)
		if result.Status == "failed" {
			slog.Warn("trash action failed", "action", action, "trash_id", trashID, "reason", result.Reason)
		}
		results = append(results, result)
	}

	return results, nil
}

func (s *TrashService) applyAction(ctx context.Context, userID string, action int, trashID string) model.TrashActionResult {
	entry, err := s.trash.FindByID(ctx, trashID)
	if errors.Is(err, model.ErrTrashEntryNotFound) {
		if action == model.TrashActionDeletePermanent {
			// Deleting an already-deleted entry is a no-op success.
			return model.TrashActionResult{TrashID: trashID, Status: "deleted"}
		}
		return model.TrashActionResult{TrashID: trashID, Status: "failed", Reason: "trash entry not found"}
	}
	if err != nil {
		return model.TrashActionResult{TrashID: trashID, Status: "failed", Reason: err.Error()}
	}

	if entry.UserID != userID {
		return model.TrashActionResult{TrashID: trashID, Status: "failed", Reason: "not the owner of this entry"}
	}

	switch action {
	case model.TrashActionRestore:
		if err := s.restore(ctx, entry); err != nil {
			return model.TrashActionResult{TrashID: trashID, Status: "failed", Reason: err.Error()}
		}
		return model.TrashActionResult{TrashID: trashID, Status: "restored"}

	default:
		if err := s.deletePermanently(ctx, entry); err != nil {
			return model.TrashActionResult{TrashID: trashID, Status: "failed", Reason: err.Error()}
		}
		return model.TrashActionResult{TrashID: trashID, Status: "deleted"}
	}
}

func (s *TrashService) restore(ctx context.Context, entry model.TrashEntry) error {
	switch entry.Type {
	case model.TrashTypeTree:
		if err := s.trees.SetStatus(ctx, entry.ItemID, model.StatusActive); err != nil {
			return err
		}
	case model.TrashTypeImage:
		if err := s.images.SetStatus(ctx, entry.ItemID, model.StatusActive); err != nil {
			return err
		}
	}

	return s.trash.Delete(ctx, entry.TrashID)
}

func (s *TrashService) deletePermanently(ctx context.Context, entry model.TrashEntry) error {
	switch entry.Type {
	case model.TrashTypeTree:
		if err := s.trees.Delete(ctx, entry.ItemID); err != nil && !errors.Is(err, model.ErrTreeNotFound) {
			return err
		}
	case model.TrashTypeImage:
		if err := s.images.Delete(ctx, entry.ItemID); err != nil && !errors.Is(err, model.ErrImageNotFound) {
			return err
		}
	}

	if err := s.trash.Delete(ctx, entry.TrashID); err != nil && !errors.Is(err, model.ErrTrashEntryNotFound) {
		return err
	}

	return nil
}

func (s *TrashService) rollbackStatus(ctx context.Context, itemType int, itemID string) {
	var err error
	switch itemType {
	case model.TrashTypeTree:
		err = s.trees.SetStatus(ctx, itemID, model.StatusActive)
	case model.TrashTypeImage:
		err = s.images.SetStatus(ctx, itemID, model.StatusActive)
	}
	if err != nil {
		slog.Error("failed to roll back trash status", "item_id", itemID, "error", err)
	}
}
