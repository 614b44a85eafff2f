package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/almonsour13/mango-lens/internal/middleware"
	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/internal/service"
	"github.com/almonsour13/mango-lens/pkg/apierror"
)

type TrashHandler struct {
	service *service.TrashService
}

func NewTrashHandler(service *service.TrashService) *TrashHandler {
	return &TrashHandler{service: service}
}

// Move places a tree or an image into the trash. Exactly one of treeID
// and imageID must be present in the payload.
func (h *TrashHandler) Move(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	if pathUser := chi.URLParam(r, "userID"); pathUser != "" && pathUser != claims.UserID {
		writeError(w, model.ErrForbidden)
		return
	}

	var payload model.MoveToTrashRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	itemType, itemID, err := resolveTrashTarget(payload)
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := h.service.MoveToTrash(r.Context(), claims.UserID, itemType, itemID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, entry, nil)
}

func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	entries, err := h.service.List(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, entries, &model.Meta{Total: len(entries)})
}

// Action restores or permanently deletes a batch of trash entries. Each
// entry is processed on its own; one failure never aborts the rest.
func (h *TrashHandler) Action(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.TrashActionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if payload.Action != model.TrashActionRestore && payload.Action != model.TrashActionDeletePermanent {
		writeError(w, apierror.BadRequest("action must be 1 (restore) or 2 (delete permanently)", "action"))
		return
	}
	if len(payload.TrashIDs) == 0 {
		writeError(w, apierror.BadRequest("trashIDs must not be empty", "trashIDs"))
		return
	}

	results, err := h.service.HandleAction(r.Context(), claims.UserID, payload.Action, payload.TrashIDs)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.TrashActionResponse{Results: results}, nil)
}

func resolveTrashTarget(payload model.MoveToTrashRequest) (int, string, error) {
	switch {
	case payload.TreeID != "" && payload.ImageID != "":
		return 0, "", apierror.BadRequest("provide either treeID or imageID, not both", "")
	case payload.TreeID != "":
		return model.TrashTypeTree, payload.TreeID, nil
	case payload.ImageID != "":
		return model.TrashTypeImage, payload.ImageID, nil
	default:
		return 0, "", apierror.BadRequest("either treeID or imageID is required", "")
	}
}
