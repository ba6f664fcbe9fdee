package directory

import (
	"github.com/noah-isme/yupiflow-admin/internal/models"
)

// StatsSummary is the header of a users table. Total is the server-reported count for the
// current filter; ByRole counts only the rows of the loaded page.
type StatsSummary struct {
	Total  int                     `json:"total"`
	ByRole map[models.UserRole]int `json:"by_role"`
	Admins int                     `json:"admins"`
	Staff  int                     `json:"staff"`
}

// Header figures count fixed roles, not access tiers: super_admin is not an "Admin" here.
var (
	adminHeaderRoles = map[models.UserRole]bool{models.RoleAdmin: true, models.RoleDeveloper: true}
	staffHeaderRoles = map[models.UserRole]bool{models.RoleWarehouse: true, models.RoleWebmaster: true, models.RoleStockist: true}
)

// Summarize derives the header figures from the applied page.
func Summarize(view PageView) StatsSummary {
	summary := StatsSummary{
		Total:  view.Total,
		ByRole: make(map[models.UserRole]int),
	}
	for _, user := range view.Records {
		summary.ByRole[user.Role]++
		switch {
		case adminHeaderRoles[user.Role]:
			summary.Admins++
		case staffHeaderRoles[user.Role]:
			summary.Staff++
		}
	}
	return summary
}

// Count returns the page-local count for role.
func (s StatsSummary) Count(role models.UserRole) int {
	return s.ByRole[role]
}

// RegistrationStats counts registrations by review status.
type RegistrationStats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// SummarizeRegistrations counts records by status.
func SummarizeRegistrations(records []models.Registration) RegistrationStats {
	stats := RegistrationStats{Total: len(records)}
	for _, reg := range records {
		switch reg.Status {
		case models.RegistrationPending:
			stats.Pending++
		case models.RegistrationApproved:
			stats.Approved++
		case models.RegistrationRejected:
			stats.Rejected++
		}
	}
	return stats
}
