package model

import "time"

// PendingItem is a scan captured while offline, queued in the agent's
// local store until it is flushed to the scan-save endpoint. PendingID
// doubles as the idempotency key for the submission.
type PendingItem struct {
	PendingID string    `json:"pendingID"`
	UserID    string    `json:"userID"`
	TreeCode  string    `json:"treeCode"`
	ImageData string    `json:"imageData"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserCredentials is the agent's read-through cache of the signed-in
// session. At most one row exists per user; it is dropped on logout.
type UserCredentials struct {
	UserID       string `json:"userID"`
	FName        string `json:"fName"`
	LName        string `json:"lName"`
	Email        string `json:"email"`
	Role         string `json:"role"`
	ProfileImage string `json:"profileImage,omitempty"`
	Token        string `json:"-"`
}
