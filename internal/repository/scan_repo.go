package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almonsour13/mango-lens/internal/model"
)

type ScanRepository struct {
	pool *pgxpool.Pool
}

func NewScanRepository(pool *pgxpool.Pool) *ScanRepository {
	return &ScanRepository{pool: pool}
}

// SavedScan captures everything a single scan-save persists.
type SavedScan struct {
	Image         model.Image
	PendingID     string
	AnalyzedMIME  string
	AnalyzedData  []byte
	Diseases      []model.DetectedDisease
	BoundingBoxes []model.BoundingBox
}

// Save persists the image, its analysis, the detected diseases and their
// bounding boxes, and the annotated image in one transaction. Either the
// whole scan lands or none of it does.
func (r *ScanRepository) Save(ctx context.Context, scan SavedScan) (string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("begin scan save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	img := scan.Image
	var pendingID any
	if scan.PendingID != "" {
		pendingID = scan.PendingID
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO images (id, user_id, tree_id, mime_type, image_data, status, pending_id, uploaded_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		img.ID, img.UserID, img.TreeID, img.MimeType, img.ImageData, model.StatusActive, pendingID, img.UploadedAt)
	if err != nil {
		return "", fmt.Errorf("insert image: %w", err)
	}

	analysisID := uuid.NewString()
	_, err = tx.Exec(ctx,
		`INSERT INTO analyses (id, image_id, analyzed_at) VALUES ($1, $2, $3)`,
		analysisID, img.ID, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("insert analysis: %w", err)
	}

	for _, detected := range scan.Diseases {
		diseaseID, resolveErr := resolveDiseaseID(ctx, tx, detected)
		if resolveErr != nil {
			return "", resolveErr
		}

		identifiedID := uuid.NewString()
		_, err = tx.Exec(ctx,
			`INSERT INTO disease_identified (id, analysis_id, disease_id, likelihood_score)
			 VALUES ($1, $2, $3, $4)`,
			identifiedID, analysisID, diseaseID, detected.LikelihoodScore)
		if err != nil {
			return "", fmt.Errorf("insert detected disease: %w", err)
		}

		for _, box := range scan.BoundingBoxes {
			if box.DiseaseName != detected.DiseaseName {
				continue
			}
			_, err = tx.Exec(ctx,
				`INSERT INTO bounding_boxes (id, disease_identified_id, x, y, w, h)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.NewString(), identifiedID, box.X, box.Y, box.W, box.H)
			if err != nil {
				return "", fmt.Errorf("insert bounding box: %w", err)
			}
		}
	}

	if len(scan.AnalyzedData) > 0 {
		_, err = tx.Exec(ctx,
			`INSERT INTO analyzed_images (analysis_id, mime_type, image_data) VALUES ($1, $2, $3)`,
			analysisID, scan.AnalyzedMIME, scan.AnalyzedData)
		if err != nil {
			return "", fmt.Errorf("insert analyzed image: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("commit scan save: %w", err)
	}

	return analysisID, nil
}

// resolveDiseaseID finds the catalog row for a detected disease, creating
// it on first sight so scans never fail on an unknown disease name.
func resolveDiseaseID(ctx context.Context, tx pgx.Tx, detected model.DetectedDisease) (string, error) {
	if detected.DiseaseID != "" {
		return detected.DiseaseID, nil
	}

	var id string
	err := tx.QueryRow(ctx, `SELECT id FROM diseases WHERE name = $1`, detected.DiseaseName).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		id = uuid.NewString()
		if _, insErr := tx.Exec(ctx,
			`INSERT INTO diseases (id, name) VALUES ($1, $2)`, id, detected.DiseaseName); insErr != nil {
			return "", fmt.Errorf("insert disease %q: %w", detected.DiseaseName, insErr)
		}
		return id, nil
	}
	if err != nil {
		return "", fmt.Errorf("resolve disease %q: %w", detected.DiseaseName, err)
	}
	return id, nil
}

func (r *ScanRepository) FindAnalysisByImage(ctx context.Context, imageID string) (model.Analysis, error) {
	var a model.Analysis
	err := r.pool.QueryRow(ctx,
		`SELECT id, image_id, analyzed_at FROM analyses WHERE image_id = $1
		 ORDER BY analyzed_at DESC LIMIT 1`, imageID).
		Scan(&a.ID, &a.ImageID, &a.AnalyzedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Analysis{}, model.ErrAnalysisNotFound
	}
	if err != nil {
		return model.Analysis{}, fmt.Errorf("find analysis by image: %w", err)
	}
	return a, nil
}

func (r *ScanRepository) ListDetectedDiseases(ctx context.Context, analysisID string) ([]model.DetectedDisease, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT d.id, d.name, di.likelihood_score
		 FROM disease_identified di
		 JOIN diseases d ON d.id = di.disease_id
		 WHERE di.analysis_id = $1
		 ORDER BY di.likelihood_score DESC`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("list detected diseases: %w", err)
	}
	defer rows.Close()

	detected := make([]model.DetectedDisease, 0)
	for rows.Next() {
		var d model.DetectedDisease
		if err := rows.Scan(&d.DiseaseID, &d.DiseaseName, &d.LikelihoodScore); err != nil {
			return nil, fmt.Errorf("scan detected disease: %w", err)
		}
		detected = append(detected, d)
	}
	return detected, rows.Err()
}

func (r *ScanRepository) FindAnalyzedImage(ctx context.Context, analysisID string) ([]byte, string, error) {
	var data []byte
	var mimeType string
	err := r.pool.QueryRow(ctx,
		`SELECT image_data, mime_type FROM analyzed_images WHERE analysis_id = $1`, analysisID).
		Scan(&data, &mimeType)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, "", model.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("find analyzed image: %w", err)
	}
	return data, mimeType, nil
}
