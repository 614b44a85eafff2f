package model

import "time"

// Trash entry types. The type tag determines which entity kind ItemID
// refers to.
const (
	TrashTypeTree  = 1
	TrashTypeImage = 2
)

// Trash actions dispatched against one or more entries.
const (
	TrashActionRestore         = 1
	TrashActionDeletePermanent = 2
)

// TrashEntry represents a soft-deleted tree or image. TreeCode carries
// enough of the underlying item to render a summary row; it is "N/A"
// for image entries.
type TrashEntry struct {
	TrashID   string    `json:"trashID"`
	UserID    string    `json:"userID"`
	Type      int       `json:"type"`
	ItemID    string    `json:"itemID"`
	TreeCode  string    `json:"treeCode"`
	DeletedAt time.Time `json:"deletedAt"`
}

// TrashActionResult reports the per-entry outcome of a batch action.
// Entries succeed or fail independently; a batch is never all-or-nothing.
type TrashActionResult struct {
	TrashID string `json:"trashID"`
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
}
