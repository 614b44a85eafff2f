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

type TreeHandler struct {
	service *service.TreeService
}

func NewTreeHandler(service *service.TreeService) *TreeHandler {
	return &TreeHandler{service: service}
}

func (h *TreeHandler) Add(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.AddTreeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	tree, err := h.service.AddTree(r.Context(), claims.UserID, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, tree, nil)
}

func (h *TreeHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	trees, err := h.service.ListTrees(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, trees, &model.Meta{Total: len(trees)})
}

func (h *TreeHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	treeCode := chi.URLParam(r, "treeCode")
	tree, err := h.service.GetByCode(r.Context(), claims.UserID, treeCode)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tree, nil)
}

// ListAll serves the admin view of every tree regardless of owner.
func (h *TreeHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	trees, err := h.service.ListAllTrees(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, trees, &model.Meta{Total: len(trees)})
}
