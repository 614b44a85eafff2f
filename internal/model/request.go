package model

type RegisterRequest struct {
	FName    string `json:"fName"`
	LName    string `json:"lName"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UpdateUserRequest struct {
	FName string `json:"fName"`
	LName string `json:"lName"`
	Email string `json:"email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

type AddTreeRequest struct {
	TreeCode    string `json:"treeCode"`
	Description string `json:"description"`
}

// SaveScanRequest mirrors the scan-save wire format. PendingID is the
// optional idempotency key assigned by the offline queue.
type SaveScanRequest struct {
	UserID     string     `json:"userID"`
	PendingID  string     `json:"pendingID,omitempty"`
	ScanResult ScanResult `json:"scanResult"`
}

// MoveToTrashRequest accepts either field; exactly one must be set.
// TreeID implies a type-1 entry, ImageID a type-2 entry.
type MoveToTrashRequest struct {
	TreeID  string `json:"treeID,omitempty"`
	ImageID string `json:"imageID,omitempty"`
}

type TrashActionRequest struct {
	Action   int      `json:"action"`
	TrashIDs []string `json:"trashIDs"`
}
