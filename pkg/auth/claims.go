package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	ActorID  uuid.UUID
	Role     enums.ActorRole
	MarketID *uuid.UUID
	JTI      string
}

// AccessTokenClaims represents the typed JWT issued to clients. Tokens are
// minted by the identity service; the engine only verifies them.
type AccessTokenClaims struct {
	ActorID  uuid.UUID       `json:"actor_id"`
	Role     enums.ActorRole `json:"role"`
	MarketID *uuid.UUID      `json:"market_id,omitempty"`
	jwt.RegisteredClaims
}
