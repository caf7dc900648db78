package enums

import "fmt"

// ActorRole identifies who owns a wallet or performs an engine action.
type ActorRole string

const (
	ActorRoleMerchant ActorRole = "merchant"
	ActorRoleCourier  ActorRole = "courier"
	ActorRolePlatform ActorRole = "platform"
	ActorRoleOperator ActorRole = "operator"
	ActorRoleCustomer ActorRole = "customer"
)

var validActorRoles = []ActorRole{
	ActorRoleMerchant,
	ActorRoleCourier,
	ActorRolePlatform,
	ActorRoleOperator,
	ActorRoleCustomer,
}

// String implements fmt.Stringer.
func (r ActorRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known ActorRole.
func (r ActorRole) IsValid() bool {
	for _, candidate := range validActorRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseActorRole converts raw input into an ActorRole.
func ParseActorRole(value string) (ActorRole, error) {
	for _, candidate := range validActorRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid actor role %q", value)
}
