package handler

import (
	"encoding/json"
	"net/http"

	"github.com/almonsour13/mango-lens/internal/middleware"
	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/internal/service"
	"github.com/almonsour13/mango-lens/pkg/apierror"
)

type ScanHandler struct {
	service *service.ScanService
}

func NewScanHandler(service *service.ScanService) *ScanHandler {
	return &ScanHandler{service: service}
}

// Save persists an analyzed scan. The authenticated user always wins over
// any userID carried in the payload.
func (h *ScanHandler) Save(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, apierror.Unauthorized("authentication required"))
		return
	}

	var payload model.SaveScanRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}
	payload.UserID = claims.UserID

	result, err := h.service.SaveScan(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusCreated
	if result.Duplicate {
		status = http.StatusOK
	}
	writeSuccess(w, status, result, nil)
}
