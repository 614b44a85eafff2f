package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"math"
	"net/http"

	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/pkg/apierror"
)

type ImageService struct {
	images ImageStore
	scans  ScanStore
}

func NewImageService(images ImageStore, scans ScanStore) *ImageService {
	return &ImageService{images: images, scans: scans}
}

// List returns the caller's active images with their latest analysis
// summary attached when one exists.
func (s *ImageService) List(ctx context.Context, userID string) ([]model.ImageDetails, error) {
	items, err := s.images.ListActive(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range items {
		analysis, err := s.scans.FindAnalysisByImage(ctx, items[i].Image.ID)
		if errors.Is(err, model.ErrAnalysisNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		detected, err := s.scans.ListDetectedDiseases(ctx, analysis.ID)
		if err != nil {
			return nil, err
		}

		a := analysis
		items[i].Analysis = &a
		items[i].Diseases = detected
	}

	return items, nil
}

func (s *ImageService) Get(ctx context.Context, userID string, imageID string) (model.ImageDetails, error) {
	img, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return model.ImageDetails{}, err
	}
	if img.UserID != userID {
		return model.ImageDetails{}, model.ErrForbidden
	}

	details := model.ImageDetails{Image: img}
	analysis, err := s.scans.FindAnalysisByImage(ctx, imageID)
	if err != nil && !errors.Is(err, model.ErrAnalysisNotFound) {
		return model.ImageDetails{}, err
	}
	if err == nil {
		detected, err := s.scans.ListDetectedDiseases(ctx, analysis.ID)
		if err != nil {
			return model.ImageDetails{}, err
		}
		a := analysis
		details.Analysis = &a
		details.Diseases = detected
	}

	return details, nil
}

// GetAnalyzed returns the annotated image blob for an image's latest
// analysis.
func (s *ImageService) GetAnalyzed(ctx context.Context, userID string, imageID string) ([]byte, string, error) {
	img, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return nil, "", err
	}
	if img.UserID != userID {
		return nil, "", model.ErrForbidden
	}

	analysis, err := s.scans.FindAnalysisByImage(ctx, imageID)
	if err != nil {
		return nil, "", err
	}

	return s.scans.FindAnalyzedImage(ctx, analysis.ID)
}

// Thumbnail decodes the stored blob, scales it so the longest side is at
// most size pixels, and re-encodes it as JPEG. Images are never upscaled.
func (s *ImageService) Thumbnail(ctx context.Context, userID string, imageID string, size int) ([]byte, error) {
	if size <= 0 {
		size = 256
	}

	img, err := s.images.FindByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if img.UserID != userID {
		return nil, model.ErrForbidden
	}

	src, _, err := image.Decode(bytes.NewReader(img.ImageData))
	if err != nil {
		return nil, apierror.New("UNSUPPORTED_TYPE", "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	bounds := src.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, apierror.New("UNSUPPORTED_TYPE", "invalid image dimensions", imageID, http.StatusUnsupportedMediaType)
	}

	maxDim := width
	if height > maxDim {
		maxDim = height
	}

	scale := float64(size) / float64(maxDim)
	if scale > 1 {
		scale = 1
	}

	targetWidth := int(math.Round(float64(width) * scale))
	targetHeight := int(math.Round(float64(height) * scale))
	if targetWidth < 1 {
		targetWidth = 1
	}
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
