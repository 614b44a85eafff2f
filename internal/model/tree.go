package model

import "time"

// Entity status values shared by trees and images.
const (
	StatusActive  = 1
	StatusTrashed = 2
)

// Tree is a monitored plant identified by a per-user unique tree code.
type Tree struct {
	ID          string    `json:"treeID"`
	UserID      string    `json:"userID"`
	TreeCode    string    `json:"treeCode"`
	Description string    `json:"description,omitempty"`
	Status      int       `json:"status"`
	AddedAt     time.Time `json:"addedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
