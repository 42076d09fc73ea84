package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Role values are fixed at seed time; there is no role management surface.
const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
)

// User is the authenticated principal carried through the request context.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is the external authenticate contract: tokens plus the principal.
type LoginResult struct {
	User   User       `json:"user"`
	Tokens AuthTokens `json:"tokens"`
}

// Claims represents JWT token claims. Role is embedded so the gate can decide
// without a user lookup, but the middleware still reloads the user to catch
// removed accounts.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// TokenGenerator creates and validates session tokens.
type TokenGenerator interface {
	GenerateAccessToken(userID, username, role string) (string, error)
	GenerateRefreshToken(userID, username, role string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// ServiceAPI is what the HTTP handler needs from the auth service.
type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*LoginResult, error)
	RefreshTokens(refreshToken string) (AuthTokens, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	GetUserByID(userID int64) (*User, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleDoctor, RoleReceptionist:
		return true
	}
	return false
}

type ctxKey string

const ContextUserKey ctxKey = "authUser"

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

type JWTTokenGenerator struct {
	AccessTokenSecret  []byte
	RefreshTokenSecret []byte
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
}
