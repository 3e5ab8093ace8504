package access

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "unionhub/pkg/domain"
	dErrors "unionhub/pkg/domain-errors"
)

// Claims are the access token claims that resolve to an ActingContext.
type Claims struct {
	MemberID  string `json:"member_id"`
	Role      string `json:"role"`
	Level     string `json:"level"`
	EntityID  string `json:"entity_id,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	jwt.RegisteredClaims
}

// TokenService signs and validates HS256 access tokens.
type TokenService struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewTokenService(signingKey, issuer, audience string) *TokenService {
	return &TokenService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// Issue signs a token for actor valid for ttl.
func (s *TokenService) Issue(actor ActingContext, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		MemberID:  actor.MemberID.String(),
		Role:      string(actor.Role),
		Level:     string(actor.Level),
		Portfolio: string(actor.ActivePortfolio),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	}
	if !actor.EntityID.IsNil() {
		claims.EntityID = actor.EntityID.String()
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", err
	}
	return signed, nil
}

func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithAudience(s.audience))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// Resolve validates the token and converts its claims into an ActingContext.
func (s *TokenService) Resolve(tokenString string) (ActingContext, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return ActingContext{}, err
	}
	return claims.Actor()
}

// Actor converts validated claims into an ActingContext.
func (c *Claims) Actor() (ActingContext, error) {
	memberID, err := id.ParseMemberID(c.MemberID)
	if err != nil {
		return ActingContext{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	level, err := id.ParseLevel(c.Level)
	if err != nil {
		return ActingContext{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	role := Role(c.Role)
	switch role {
	case RoleSuperAdmin, RoleStateAdmin, RoleDistrictAdmin, RoleTehsilAdmin, RoleMember:
	default:
		return ActingContext{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	actor := ActingContext{
		MemberID:        memberID,
		Role:            role,
		Level:           level,
		ActivePortfolio: Portfolio(c.Portfolio),
	}
	if c.EntityID != "" {
		entity, err := id.ParseEntityID(c.EntityID)
		if err != nil {
			return ActingContext{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
		}
		actor.EntityID = entity
	}
	return actor, nil
}
