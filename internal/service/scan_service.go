package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/internal/repository"
	"github.com/almonsour13/mango-lens/internal/util"
	"github.com/almonsour13/mango-lens/pkg/apierror"
)

// ScanStore is the slice of the scan repository the scan service needs.
type ScanStore interface {
	Save(ctx context.Context, scan repository.SavedScan) (string, error)
	FindAnalysisByImage(ctx context.Context, imageID string) (model.Analysis, error)
	ListDetectedDiseases(ctx context.Context, analysisID string) ([]model.DetectedDisease, error)
	FindAnalyzedImage(ctx context.Context, analysisID string) ([]byte, string, error)
}

// ImageStore is the slice of the image repository shared by the scan,
// image and trash services.
type ImageStore interface {
	FindByID(ctx context.Context, id string) (model.Image, error)
	FindByPendingID(ctx context.Context, pendingID string) (model.Image, error)
	ListActive(ctx context.Context, userID string) ([]model.ImageDetails, error)
	SetStatus(ctx context.Context, id string, status int) error
	Delete(ctx context.Context, id string) error
}

type ScanService struct {
	scans  ScanStore
	images ImageStore
	trees  TreeStore
}

func NewScanService(scans ScanStore, images ImageStore, trees TreeStore) *ScanService {
	return &ScanService{scans: scans, images: images, trees: trees}
}

// SaveScan validates and persists a completed scan. When the request
// carries a pendingID that was already saved, the earlier result is
// acknowledged instead of inserting a duplicate, so offline-queue
// retries stay safe.
func (s *ScanService) SaveScan(ctx context.Context, req model.SaveScanRequest) (model.SaveScanResponse, error) {
	if err := validateScanRequest(req); err != nil {
		return model.SaveScanResponse{}, err
	}

	if pendingID := strings.TrimSpace(req.PendingID); pendingID != "" {
		existing, err := s.images.FindByPendingID(ctx, pendingID)
		if err == nil {
			return model.SaveScanResponse{
				Message:   "Scan was already saved.",
				ImageID:   existing.ID,
				Duplicate: true,
			}, nil
		}
		if !errors.Is(err, model.ErrImageNotFound) {
			return model.SaveScanResponse{}, err
		}
	}

	tree, err := s.trees.FindByCode(ctx, req.UserID, req.ScanResult.TreeCode)
	if err != nil {
		return model.SaveScanResponse{}, err
	}
	if tree.Status != model.StatusActive {
		return model.SaveScanResponse{}, apierror.Conflict("tree is in the trash", tree.TreeCode)
	}

	originalData, originalMIME, err := util.DecodeDataURL(req.ScanResult.OriginalImage)
	if err != nil {
		return model.SaveScanResponse{}, err
	}

	analyzedData, analyzedMIME, err := util.DecodeDataURL(req.ScanResult.AnalyzedImage)
	if err != nil {
		return model.SaveScanResponse{}, err
	}

	scan := repository.SavedScan{
		Image: model.Image{
			ID:         uuid.NewString(),
			UserID:     req.UserID,
			TreeID:     tree.ID,
			MimeType:   originalMIME,
			ImageData:  originalData,
			Status:     model.StatusActive,
			UploadedAt: time.Now().UTC(),
		},
		PendingID:     strings.TrimSpace(req.PendingID),
		AnalyzedMIME:  analyzedMIME,
		AnalyzedData:  analyzedData,
		Diseases:      req.ScanResult.Diseases,
		BoundingBoxes: req.ScanResult.BoundingBoxes,
	}

	if _, err := s.scans.Save(ctx, scan); err != nil {
		return model.SaveScanResponse{}, err
	}

	return model.SaveScanResponse{
		Message: "Analysis result and image saved successfully.",
		ImageID: scan.Image.ID,
	}, nil
}

func validateScanRequest(req model.SaveScanRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return apierror.BadRequest("incomplete scan result data", "userID")
	}

	result := req.ScanResult
	if strings.TrimSpace(result.TreeCode) == "" {
		return apierror.BadRequest("incomplete scan result data", "treeCode")
	}
	if strings.TrimSpace(result.OriginalImage) == "" {
		return apierror.BadRequest("incomplete scan result data", "originalImage")
	}
	if strings.TrimSpace(result.AnalyzedImage) == "" {
		return apierror.BadRequest("incomplete scan result data", "analyzedImage")
	}
	if result.Diseases == nil {
		return apierror.BadRequest("incomplete scan result data", "diseases")
	}
	if result.BoundingBoxes == nil {
		return apierror.BadRequest("incomplete scan result data", "boundingBoxes")
	}

	for _, detected := range result.Diseases {
		if strings.TrimSpace(detected.DiseaseName) == "" && strings.TrimSpace(detected.DiseaseID) == "" {
			return apierror.BadRequest("detected disease is missing a name", "")
		}
		if detected.LikelihoodScore < 0 || detected.LikelihoodScore > 100 {
			return apierror.BadRequest("likelihoodScore must be between 0 and 100", detected.DiseaseName)
		}
	}

	return nil
}
