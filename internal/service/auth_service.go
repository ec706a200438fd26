package service

import (
	"errors"
	"log"
	"os"
	"sheetgrader/internal/model"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// hostNamespace scopes name-based host ids
var hostNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("sheetgrader/hosts"))

// AuthService handles instructor authentication
type AuthService struct {
	hostUsername string
	passwordHash []byte
	jwtSecret    []byte
	tokenTTL     time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService() *AuthService {
	username := os.Getenv("HOST_USERNAME")
	if username == "" {
		username = "admin"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "super-secret-key-change-in-production"
	}

	return &AuthService{
		hostUsername: username,
		passwordHash: hostPasswordHash(),
		jwtSecret:    []byte(secret),
		tokenTTL:     7 * 24 * time.Hour,
	}
}

// hostPasswordHash prefers a precomputed bcrypt hash over the plain password
func hostPasswordHash() []byte {
	if hash := os.Getenv("HOST_PASSWORD_HASH"); hash != "" {
		return []byte(hash)
	}
	password := os.Getenv("HOST_PASSWORD")
	if password == "" {
		password = "password123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash host password: %v", err)
	}
	return hash
}

// HostID derives a stable workspace owner id from a username, so the same
// instructor finds their answer key and history after logging in again.
func HostID(username string) string {
	return "host_" + uuid.NewSHA1(hostNamespace, []byte(username)).String()[:8]
}

// Login validates credentials and returns a signed token
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.hostUsername {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	hostID := HostID(username)
	now := time.Now()

	claims := &model.HostClaims{
		HostID: hostID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:  tokenString,
		HostID: hostID,
	}, nil
}

// ValidateHostToken validates a host JWT and returns claims
func (s *AuthService) ValidateHostToken(tokenString string) (*model.HostClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.HostClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.HostClaims)
	if !ok || !token.Valid || claims.HostID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
