package domain

import "github.com/shopspring/decimal"

// Role is the role an authenticated actor plays in the remittance flow.
type Role string

const (
	RoleAdminColombia  Role = "ADMIN_COLOMBIA"
	RoleAdminVenezuela Role = "ADMIN_VENEZUELA"
	RoleSeller         Role = "VENDEDOR"
	RoleClient         Role = "CLIENTE" // app client creating its own transfers
)

// Country identifies which side of the corridor an administrator operates.
type Country string

const (
	Colombia  Country = "COLOMBIA"
	Venezuela Country = "VENEZUELA"
)

// AdminAffiliation links a seller to the administrator that manages it.
type AdminAffiliation struct {
	AdminID string  `json:"adminID"`
	Country Country `json:"country"`
}

// Actor is the authenticated caller. Authorization already happened upstream;
// the core trusts these fields.
type Actor struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Role           Role              `json:"role"`
	Affiliation    *AdminAffiliation `json:"affiliation,omitempty"`
	CommissionRate *decimal.Decimal  `json:"commissionRate,omitempty"`
}

// IsAdmin reports whether the actor is either country administrator.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdminColombia || a.Role == RoleAdminVenezuela
}

// IsReceivingAdmin reports whether the actor administers the paying-out side.
func (a Actor) IsReceivingAdmin() bool {
	return a.Role == RoleAdminVenezuela
}

// CanCreateTransactions reports whether the actor may originate transfers.
func (a Actor) CanCreateTransactions() bool {
	return a.Role == RoleSeller || a.Role == RoleClient
}

// BelongsToVenezuelaAdmin reports whether the seller is managed by the Venezuela administrator.
func (a Actor) BelongsToVenezuelaAdmin() bool {
	return a.Affiliation != nil && a.Affiliation.Country == Venezuela
}
