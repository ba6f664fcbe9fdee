package directory

import "github.com/noah-isme/yupiflow-admin/internal/models"

// Session is the authenticated operator, passed explicitly to every screen.
type Session struct {
	Token string
	User  *models.UserInfo
}

// Authenticated reports whether the session carries a bearer token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// CanManage reports whether the operator may create or delete users and review registrations.
func (s Session) CanManage() bool {
	return s.User != nil && models.LookupRole(s.User.Role).Tier == models.TierAdmin
}
