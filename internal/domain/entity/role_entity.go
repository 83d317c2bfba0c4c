package entity

// Role represents the marketplace role of a user
type Role string

const (
	RoleBuyer           Role = "buyer"
	RoleSeller          Role = "seller"
	RoleQualityControl  Role = "quality_control"
	RoleCustomerService Role = "customer_service"
	RoleDepositor       Role = "depositor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleQualityControl, RoleCustomerService, RoleDepositor:
		return true
	}
	return false
}
