package services

import (
	"time"
	"vistoria/config"
	"vistoria/internal/models"
	"vistoria/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"

	tokenIssuer = "vistoria"
)

type TokenClaims struct {
	UserID uuid.UUID   `json:"uid"`
	Role   models.Role `json:"role"`
	Type   TokenType   `json:"type"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService issues and validates HS256 session tokens and hashes passwords.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	log        logger.Logger
}

func NewTokenService(config config.Config) *TokenService {
	return &TokenService{
		secret:     []byte(config.JWTSecret),
		accessTTL:  config.JWTAccessTTL,
		refreshTTL: config.JWTRefreshTTL,
		now:        time.Now,
		log:        logger.New("tokenService"),
	}
}

func (s *TokenService) Issue(user *models.User) (TokenPair, error) {
	log := s.log.Function("Issue")

	access, err := s.sign(user, AccessToken, s.accessTTL)
	if err != nil {
		return TokenPair{}, log.Err("failed to sign access token", err, "userID", user.ID)
	}

	refresh, err := s.sign(user, RefreshToken, s.refreshTTL)
	if err != nil {
		return TokenPair{}, log.Err("failed to sign refresh token", err, "userID", user.ID)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *TokenService) IssueAccess(user *models.User) (string, error) {
	return s.sign(user, AccessToken, s.accessTTL)
}

func (s *TokenService) sign(user *models.User, tokenType TokenType, ttl time.Duration) (string, error) {
	now := s.now()
	claims := TokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		Type:   tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Validate parses a token and checks it carries the expected type.
func (s *TokenService) Validate(tokenString string, expected TokenType) (*TokenClaims, error) {
	log := s.log.Function("Validate")

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		log.Debug("token rejected", "error", err)
		return nil, types.Unauthorized("invalid or expired token")
	}

	if claims.Type != expected {
		return nil, types.Unauthorized("wrong token type")
	}

	return claims, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
