// README: User profile, role and subscription models.
package profile

import (
	"errors"

	"ndjele/internal/types"
)

// Role is the closed set of marketplace roles. Every role-dependent
// behavior dispatches through ParseRole / Role.Provider; there is no
// second switch over role strings anywhere else.
type Role string

const (
	RoleClient   Role = "CLIENT"
	RoleDriver   Role = "DRIVER"
	RoleArtisan  Role = "ARTISAN"
	RoleMerchant Role = "MERCHANT"
	RoleDelivery Role = "DELIVERY"
	RoleDoctor   Role = "DOCTOR"
	RolePharmacy Role = "PHARMACY"
)

var ErrUnknownRole = errors.New("unknown role")

var allRoles = map[Role]struct{}{
	RoleClient:   {},
	RoleDriver:   {},
	RoleArtisan:  {},
	RoleMerchant: {},
	RoleDelivery: {},
	RoleDoctor:   {},
	RolePharmacy: {},
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if _, ok := allRoles[r]; !ok {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Provider reports whether the role serves orders rather than placing them.
func (r Role) Provider() bool {
	return r != RoleClient
}

type SubscriptionTier string

const (
	TierFree    SubscriptionTier = "FREE"
	TierPremium SubscriptionTier = "PREMIUM"
)

// UserProfile mirrors what the user edits on their profile screen.
type UserProfile struct {
	ID            types.ID         `json:"id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Phone         string           `json:"phone"`
	PhotoURL      string           `json:"photoUrl,omitempty"`
	Role          Role             `json:"role"`
	Subscription  SubscriptionTier `json:"subscription"`
	TermsAccepted bool             `json:"termsAccepted"`
}

// Contact is an SOS trusted contact. Contacts are append-only: once
// created they are never edited or removed.
type Contact struct {
	ID      types.ID `json:"id"`
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Trusted bool     `json:"trusted"`
}
