package enums

import "fmt"

// LiableParty names who pays the penalty when a complaint is upheld.
type LiableParty string

const (
	LiablePartyMerchant LiableParty = "merchant"
	LiablePartyCourier  LiableParty = "courier"
)

var validLiableParties = []LiableParty{
	LiablePartyMerchant,
	LiablePartyCourier,
}

// String implements fmt.Stringer.
func (l LiableParty) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LiableParty.
func (l LiableParty) IsValid() bool {
	for _, candidate := range validLiableParties {
		if candidate == l {
			return true
		}
	}
	return false
}

// Role maps the liable party onto its wallet-owning actor role.
func (l LiableParty) Role() ActorRole {
	if l == LiablePartyCourier {
		return ActorRoleCourier
	}
	return ActorRoleMerchant
}

// ParseLiableParty converts raw input into a LiableParty.
func ParseLiableParty(value string) (LiableParty, error) {
	for _, candidate := range validLiableParties {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid liable party %q", value)
}
