package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pasarlokal/pasarlokal-backend/pkg/config"
	"github.com/pasarlokal/pasarlokal-backend/pkg/enums"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "pasarlokal-test",
		ExpirationMinutes: 15,
	}
}

func TestMintAndParseRoundTrip(t *testing.T) {
	cfg := testJWTConfig()
	actorID := uuid.New()
	marketID := uuid.New()

	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		ActorID:  actorID,
		Role:     enums.ActorRoleCourier,
		MarketID: &marketID,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("ParseAccessToken: %v", err)
	}
	if claims.ActorID != actorID {
		t.Fatalf("actor id = %s, want %s", claims.ActorID, actorID)
	}
	if claims.Role != enums.ActorRoleCourier {
		t.Fatalf("role = %s, want courier", claims.Role)
	}
	if claims.MarketID == nil || *claims.MarketID != marketID {
		t.Fatal("market id lost in round trip")
	}
	if claims.ID == "" {
		t.Fatal("jti must be populated")
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{
		ActorID: uuid.New(),
		Role:    enums.ActorRoleOperator,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), AccessTokenPayload{
		ActorID: uuid.New(),
		Role:    enums.ActorRoleMerchant,
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected expiry validation to fail")
	}
}

func TestMintValidatesPayload(t *testing.T) {
	cfg := testJWTConfig()

	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{Role: enums.ActorRoleCourier}); err == nil {
		t.Fatal("expected missing actor id to fail")
	}
	if _, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{ActorID: uuid.New(), Role: "ghost"}); err == nil {
		t.Fatal("expected unknown role to fail")
	}
}
