package pricing

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lromero-dev/altiplano-backend/pkg/config"
)

var jwtSigningMethod = jwt.SigningMethodHS256

// CartLine is one priced line inside a cart token. Prices are frozen at
// repricing time; order creation trusts them without re-reading the catalog.
type CartLine struct {
	VariantID     uuid.UUID       `json:"variant_id"`
	Quantity      int             `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	DiscountValue decimal.Decimal `json:"discount_value"`
	Total         decimal.Decimal `json:"total"`
}

// CartTokenClaims is the signed pricing snapshot handed to clients.
type CartTokenClaims struct {
	Lines      []CartLine      `json:"lines"`
	TotalPrice decimal.Decimal `json:"total_price"`
	jwt.RegisteredClaims
}

// MintCartToken signs a pricing snapshot using the configured TTL.
func MintCartToken(cfg config.CartTokenConfig, now time.Time, lines []CartLine, total decimal.Decimal) (string, error) {
	if cfg.Secret == "" {
		return "", fmt.Errorf("cart token secret is required")
	}
	if cfg.Issuer == "" {
		return "", fmt.Errorf("cart token issuer is required")
	}
	if cfg.TTL() <= 0 {
		return "", fmt.Errorf("cart token ttl must be positive")
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("cart token requires at least one line")
	}

	claims := CartTokenClaims{
		Lines:      lines,
		TotalPrice: total,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(cfg.TTL())),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwtSigningMethod, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("signing cart token: %w", err)
	}
	return signed, nil
}

// ParseCartToken validates the token signature, issuer and expiry and returns
// the frozen snapshot.
func ParseCartToken(cfg config.CartTokenConfig, tokenString string) (*CartTokenClaims, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("cart token secret is required")
	}

	claims := &CartTokenClaims{}
	_, err := jwt.ParseWithClaims(
		tokenString,
		claims,
		func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwtSigningMethod {
				return nil, fmt.Errorf("unexpected signing method %s", token.Header["alg"])
			}
			return []byte(cfg.Secret), nil
		},
		jwt.WithValidMethods([]string{jwtSigningMethod.Alg()}),
		jwt.WithIssuer(cfg.Issuer),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
