package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ServiceAPI is the surface the handler depends on.
type ServiceAPI interface {
	Authenticate(dto LoginDTO) (*Manager, error)
	ChangePassword(managerID int64, dto ChangePasswordDTO) error
	IssueAPIToken(dto LoginDTO) (APITokenResponse, error)
	ValidateAPIToken(token string) (*Claims, error)
}

type Service struct {
	repo       Repository
	tokens     *TokenGenerator
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, tokens *TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Authenticate verifies credentials. Unknown username and wrong password
// both come back as ErrInvalidCredentials so responses cannot be used to
// probe which usernames exist.
func (s *Service) Authenticate(dto LoginDTO) (*Manager, error) {
	if err := dto.Validate(); err != nil {
		return nil, ErrInvalidCredentials
	}

	manager, err := s.repo.GetByUsername(dto.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return manager, nil
}

// ChangePassword re-verifies the current password before replacing the hash.
func (s *Service) ChangePassword(managerID int64, dto ChangePasswordDTO) error {
	manager, err := s.repo.GetByID(managerID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(manager.PasswordHash), []byte(dto.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	if dto.NewPassword == "" || dto.NewPassword != dto.ConfirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePasswordHash(managerID, string(hash)); err != nil {
		s.logger.Error("failed to update password hash", "manager_id", managerID, "error", err)
		return err
	}

	s.logger.Info("password changed", "manager_id", managerID)
	return nil
}

// IssueAPIToken authenticates and returns a bearer token for the JSON
// endpoints (programmatic clients).
func (s *Service) IssueAPIToken(dto LoginDTO) (APITokenResponse, error) {
	manager, err := s.Authenticate(dto)
	if err != nil {
		return APITokenResponse{}, err
	}

	token, expiresAt, err := s.tokens.Generate(manager.ID, manager.Username)
	if err != nil {
		return APITokenResponse{}, err
	}

	return APITokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
	}, nil
}

func (s *Service) ValidateAPIToken(token string) (*Claims, error) {
	return s.tokens.Validate(token)
}

type Claims struct {
	ManagerID string `json:"manager_id"`
	Username  string `json:"username"`
	jwt.RegisteredClaims
}

func (c *Claims) ManagerIDInt() int64 {
	id, _ := strconv.ParseInt(c.ManagerID, 10, 64)
	return id
}

type TokenGenerator struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenGenerator(secret string, ttl time.Duration) *TokenGenerator {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenGenerator{secret: []byte(secret), ttl: ttl}
}

func (g *TokenGenerator) Generate(managerID int64, username string) (string, time.Time, error) {
	expiresAt := time.Now().Add(g.ttl)

	claims := &Claims{
		ManagerID: strconv.FormatInt(managerID, 10),
		Username:  username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(managerID, 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

func (g *TokenGenerator) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return g.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}
