package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/almonsour13/mango-lens/internal/model"
	"github.com/almonsour13/mango-lens/pkg/apierror"
)

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	UpdateProfile(ctx context.Context, u model.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	List(ctx context.Context) ([]model.AuthUser, error)
}

type TokenStore interface {
	Store(ctx context.Context, token string, userID string, expiresAt time.Time) error
	Validate(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
	RevokeAllForUser(ctx context.Context, userID string) error
}

type AuthService struct {
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      UserStore
	tokens     TokenStore
}

func NewAuthService(jwtSecret string, accessTTL time.Duration, refreshTTL time.Duration, users UserStore, tokens TokenStore) *AuthService {
	return &AuthService{
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
		tokens:     tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthUser, error) {
	fName := strings.TrimSpace(req.FName)
	lName := strings.TrimSpace(req.LName)
	email := strings.TrimSpace(req.Email)
	role := strings.ToLower(strings.TrimSpace(req.Role))

	if fName == "" || lName == "" || email == "" || req.Password == "" {
		return model.AuthUser{}, apierror.BadRequest("fName, lName, email and password are required", "")
	}
	if !strings.Contains(email, "@") {
		return model.AuthUser{}, apierror.BadRequest("invalid email address", email)
	}
	if role == "" {
		role = "user"
	}
	if role != "admin" && role != "user" {
		return model.AuthUser{}, apierror.BadRequest("invalid role", role)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.AuthUser{}, err
	}
	if exists {
		return model.AuthUser{}, apierror.Conflict("email already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return model.AuthUser{}, err
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		FName:        fName,
		LName:        lName,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.AuthUser{}, err
	}

	return authUserOf(user), nil
}

func (s *AuthService) Login(ctx context.Context, email string, password string) (model.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, apierror.Unauthorized("invalid credentials")
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.ValidateToken(refreshToken, "refresh")
	if err != nil {
		return model.TokenPair{}, err
	}

	ownerID, err := s.tokens.Validate(ctx, refreshToken)
	if err != nil || ownerID != claims.UserID {
		return model.TokenPair{}, apierror.Unauthorized("refresh token is invalid")
	}

	if err := s.tokens.Revoke(ctx, refreshToken); err != nil {
		return model.TokenPair{}, err
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return model.TokenPair{}, apierror.Unauthorized("user not found")
	}

	return s.issueTokenPair(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	_ = s.tokens.Revoke(ctx, strings.TrimSpace(refreshToken))
}

func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apierror.Unauthorized("invalid token signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.Unauthorized("invalid token")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.Unauthorized("invalid token claims")
	}

	typ, _ := claimsMap["typ"].(string)
	if expectedType != "" && typ != expectedType {
		return nil, apierror.Unauthorized("invalid token type")
	}

	claims := &model.AuthClaims{Type: typ}
	claims.UserID, _ = claimsMap["sub"].(string)
	claims.Email, _ = claimsMap["email"].(string)
	claims.Role, _ = claimsMap["role"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if claims.UserID == "" {
		return nil, apierror.Unauthorized("invalid token subject")
	}

	return claims, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID string) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}

	return authUserOf(user), nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req model.UpdateUserRequest) (model.AuthUser, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.AuthUser{}, err
	}

	if fName := strings.TrimSpace(req.FName); fName != "" {
		user.FName = fName
	}
	if lName := strings.TrimSpace(req.LName); lName != "" {
		user.LName = lName
	}
	if email := strings.TrimSpace(req.Email); email != "" && !strings.EqualFold(email, user.Email) {
		if !strings.Contains(email, "@") {
			return model.AuthUser{}, apierror.BadRequest("invalid email address", email)
		}
		taken, err := s.users.ExistsByEmail(ctx, email)
		if err != nil {
			return model.AuthUser{}, err
		}
		if taken {
			return model.AuthUser{}, apierror.Conflict("email already registered", email)
		}
		user.Email = email
	}

	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return model.AuthUser{}, err
	}

	return authUserOf(user), nil
}

// UpdatePassword checks the current password, verifies the confirmation,
// and revokes every outstanding refresh token for the user.
func (s *AuthService) UpdatePassword(ctx context.Context, userID string, req model.UpdatePasswordRequest) error {
	if req.NewPassword == "" {
		return apierror.BadRequest("new password is required", "")
	}
	if req.NewPassword != req.ConfirmPassword {
		return apierror.BadRequest("password confirmation does not match", "")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apierror.New("BAD_REQUEST", "current password does not match", "", http.StatusBadRequest)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), 12)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}

	return s.tokens.RevokeAllForUser(ctx, userID)
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.AuthUser, error) {
	return s.users.List(ctx)
}

func (s *AuthService) issueTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	now := time.Now().UTC()

	accessToken, err := s.signToken(jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"typ":   "access",
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshToken, err := s.signToken(jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"role":  user.Role,
		"typ":   "refresh",
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.refreshTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.tokens.Store(ctx, refreshToken, user.ID, now.Add(s.refreshTTL)); err != nil {
		return model.TokenPair{}, err
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
		User:         authUserOf(user),
	}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func authUserOf(user model.User) model.AuthUser {
	return model.AuthUser{
		ID:    user.ID,
		FName: user.FName,
		LName: user.LName,
		Email: user.Email,
		Role:  user.Role,
	}
}
