package model

import "time"

type User struct {
	ID           string    `json:"id"`
	FName        string    `json:"fName"`
	LName        string    `json:"lName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	ProfileImage []byte    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type AuthClaims struct {
	UserID  string `json:"sub"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	Type    string `json:"typ"`
	TokenID string `json:"jti"`
}

// AuthUser is the public projection of a User returned by the API.
type AuthUser struct {
	ID    string `json:"id"`
	FName string `json:"fName"`
	LName string `json:"lName"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type TokenPair struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	TokenType    string   `json:"token_type"`
	ExpiresIn    int64    `json:"expires_in"`
	User         AuthUser `json:"user"`
}
