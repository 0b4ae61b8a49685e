package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apierrors "github.com/rednote/backend/internal/errors"
	"github.com/rednote/backend/internal/models"
	"github.com/rednote/backend/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const defaultNickname = "rednote user"

// tokenTTL is how long issued bearer tokens stay valid.
const tokenTTL = 24 * time.Hour

// Service handles registration, login and bearer-token issue/verify. The
// rest of the system treats it as an opaque identity gate: it yields a
// numeric actor id and nothing else.
type Service struct {
	jwtSecret []byte
	store     *store.Store
}

// NewService creates an authentication service.
func NewService(jwtSecret []byte, st *store.Store) *Service {
	return &Service{jwtSecret: jwtSecret, store: st}
}

// AuthResponse is what register and login hand back to the boundary.
type AuthResponse struct {
	Token     string      `json:"token"`
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// RegisterRequest is the native registration payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Nickname string `json:"nickname"`
}

// LoginRequest is the native login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new account. A duplicate email is a Conflict.
func (s *Service) Register(req RegisterRequest) (*AuthResponse, error) {
	taken, err := s.store.EmailTaken(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, apierrors.Conflict("email")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	nickname := req.Nickname
	if nickname == "" {
		nickname = defaultNickname
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: string(hashed),
		Nickname:     nickname,
	}
	if err := s.store.CreateUser(&user); err != nil {
		if store.IsDuplicate(err) {
			return nil, apierrors.Conflict("email")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(&user)
}

// Login verifies credentials and issues a token. Unknown email and wrong
// password both come back as Unauthorized; callers cannot probe accounts.
func (s *Service) Login(req LoginRequest) (*AuthResponse, error) {
	user, err := s.store.UserByEmail(req.Email)
	if err != nil {
		if store.IsNotFound(err) {
			return nil, apierrors.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, apierrors.Unauthorized("invalid email or password")
	}

	return s.issueToken(user)
}

// issueToken signs an HS256 JWT for the user.
func (s *Service) issueToken(user *models.User) (*AuthResponse, error) {
	expiresAt := time.Now().Add(tokenTTL)

	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     expiresAt.Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResponse{
		Token:     tokenString,
		User:      *user,
		ExpiresAt: expiresAt,
	}, nil
}

// ResolveActor validates a bearer token and returns the actor id it names.
func (s *Service) ResolveActor(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, errors.New("invalid token claims")
	}

	// JSON numbers decode as float64.
	rawID, ok := claims["user_id"].(float64)
	if !ok || rawID <= 0 {
		return 0, errors.New("invalid user_id in token")
	}
	return uint(rawID), nil
}
