package model

import "time"

// Image is a captured photograph of a tree. ImageData holds the raw blob
// and is never serialized directly; clients fetch it through the image
// endpoints instead.
type Image struct {
	ID         string    `json:"imageID"`
	UserID     string    `json:"userID"`
	TreeID     string    `json:"treeID"`
	MimeType   string    `json:"mimeType"`
	ImageData  []byte    `json:"-"`
	Status     int       `json:"status"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ImageDetails pairs an image with its analysis results for display.
type ImageDetails struct {
	Image    Image             `json:"image"`
	TreeCode string            `json:"treeCode"`
	Analysis *Analysis         `json:"analysis,omitempty"`
	Diseases []DetectedDisease `json:"diseases,omitempty"`
}
