package model

import "time"

// Disease is a catalog entry for a detectable leaf condition.
type Disease struct {
	ID          string `json:"diseaseID"`
	Name        string `json:"diseaseName"`
	Description string `json:"description,omitempty"`
}

// DetectedDisease is one disease hit produced by an analysis, scored 0-100.
type DetectedDisease struct {
	DiseaseID       string  `json:"diseaseID"`
	DiseaseName     string  `json:"diseaseName"`
	LikelihoodScore float64 `json:"likelihoodScore"`
}

type BoundingBox struct {
	DiseaseName string  `json:"diseaseName"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	W           float64 `json:"w"`
	H           float64 `json:"h"`
}

type Analysis struct {
	ID         string    `json:"analysisID"`
	ImageID    string    `json:"imageID"`
	AnalyzedAt time.Time `json:"analyzedAt"`
}

// ScanResult is the payload produced by a completed scan. The two image
// fields arrive as data-URI strings and are decoded into blobs on save.
type ScanResult struct {
	TreeCode      string            `json:"treeCode"`
	OriginalImage string            `json:"originalImage"`
	AnalyzedImage string            `json:"analyzedImage"`
	BoundingBoxes []BoundingBox     `json:"boundingBoxes"`
	Diseases      []DetectedDisease `json:"diseases"`
}
