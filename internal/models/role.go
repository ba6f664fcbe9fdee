package models

// UserRole enumerates the directory roles.
type UserRole string

const (
	RoleDeveloper   UserRole = "dev"
	RoleSuperAdmin  UserRole = "super_admin"
	RoleAdmin       UserRole = "admin"
	RoleWebmaster   UserRole = "webmaster"
	RoleStockist    UserRole = "stockist"
	RoleWarehouse   UserRole = "warehouse"
	RoleDelivery    UserRole = "delivery"
	RoleDistributor UserRole = "distributor"
	RoleConsumer    UserRole = "consumer"
)

// RoleTier groups roles for the dashboard headline figures.
type RoleTier string

const (
	TierAdmin    RoleTier = "admin"
	TierStaff    RoleTier = "staff"
	TierCourier  RoleTier = "courier"
	TierCustomer RoleTier = "customer"
	TierUnknown  RoleTier = "unknown"
)

// RoleInfo is the display metadata attached to a role.
type RoleInfo struct {
	Role        UserRole `json:"role" yaml:"role"`
	Label       string   `json:"label" yaml:"label"`
	Color       string   `json:"color" yaml:"color"`
	Description string   `json:"description" yaml:"description"`
	Tier        RoleTier `json:"tier" yaml:"tier"`
}

// RoleCatalog lists every known role in display order.
var RoleCatalog = []RoleInfo{
	{Role: RoleDeveloper, Label: "Developer", Color: "secondary", Description: "Full system access", Tier: TierAdmin},
	{Role: RoleSuperAdmin, Label: "Super Admin", Color: "error", Description: "Administrative access", Tier: TierAdmin},
	{Role: RoleAdmin, Label: "Admin", Color: "error", Description: "Administrative access", Tier: TierAdmin},
	{Role: RoleWebmaster, Label: "Webmaster", Color: "warning", Description: "Website management", Tier: TierStaff},
	{Role: RoleStockist, Label: "Stockist", Color: "info", Description: "Inventory management", Tier: TierStaff},
	{Role: RoleWarehouse, Label: "Warehouse", Color: "primary", Description: "Warehouse operations", Tier: TierStaff},
	{Role: RoleDelivery, Label: "Delivery", Color: "success", Description: "Delivery operations", Tier: TierCourier},
	{Role: RoleDistributor, Label: "Distributor", Color: "default", Description: "Distribution network", Tier: TierCustomer},
	{Role: RoleConsumer, Label: "Consumer", Color: "default", Description: "Customer account", Tier: TierCustomer},
}

var roleIndex = func() map[UserRole]RoleInfo {
	index := make(map[UserRole]RoleInfo, len(RoleCatalog))
	for _, info := range RoleCatalog {
		index[info.Role] = info
	}
	return index
}()

// CustomerRoles are the roles shown on the customers view. An empty role also qualifies.
var CustomerRoles = []UserRole{RoleConsumer, RoleWarehouse, RoleStockist}

// Valid reports whether the role is part of the enumeration.
func (r UserRole) Valid() bool {
	_, ok := roleIndex[r]
	return ok
}

// LookupRole returns display metadata; unknown roles fall back to the raw value with the default color.
func LookupRole(role UserRole) RoleInfo {
	if info, ok := roleIndex[role]; ok {
		return info
	}
	return RoleInfo{Role: role, Label: string(role), Color: "default", Tier: TierUnknown}
}

// RoleValues returns the enumeration as plain strings.
func RoleValues() []string {
	values := make([]string, len(RoleCatalog))
	for i, info := range RoleCatalog {
		values[i] = string(info.Role)
	}
	return values
}

// IsCustomerRole reports whether the role belongs on the customers view.
func IsCustomerRole(role UserRole) bool {
	if role == "" {
		return true
	}
	for _, r := range CustomerRoles {
		if r == role {
			return true
		}
	}
	return false
}
