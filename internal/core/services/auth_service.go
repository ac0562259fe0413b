package services

import (
	"context"
	"errors"
	"time"

	"proctorlink/internal/core/domain"
	"proctorlink/internal/core/ports"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the token payload issued by the account backend. The subject
// account id travels in the "id" claim.
type Claims struct {
	UserID domain.UserID `json:"id"`
	jwt.RegisteredClaims
}

// Authenticator resolves a bearer token to a durable identity. Signature and
// expiry are checked locally against the shared HMAC secret; existence of a
// live account is confirmed against the account store on every connection.
type Authenticator struct {
	jwtSecret []byte
	tokenTTL  time.Duration
	accounts  ports.AccountRepository
}

func NewAuthenticator(jwtSecret string, tokenTTL time.Duration, accounts ports.AccountRepository) *Authenticator {
	return &Authenticator{
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		accounts:  accounts,
	}
}

// Authenticate validates tokenString and returns the identity it resolves
// to. Every failure maps onto one of the domain auth errors; callers close
// the connection on any of them.
func (a *Authenticator) Authenticate(ctx context.Context, tokenString string) (*domain.Identity, error) {
	if tokenString == "" {
		return nil, domain.ErrMissingToken
	}

	claims, err := a.parseToken(tokenString)
	if err != nil {
		return nil, err
	}

	account, err := a.accounts.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if account == nil || account.Deleted {
		return nil, domain.ErrAccountNotFound
	}

	identity := account.Identity()
	return &identity, nil
}

// GenerateToken mints a token for the given account id. The account backend
// is the normal issuer; this exists for local development and tests.
func (a *Authenticator) GenerateToken(userID domain.UserID) (string, error) {
	claims := &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(a.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

func (a *Authenticator) parseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return a.jwtSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}
