package model

import "github.com/google/uuid"

type Principal struct {
	UserID uuid.UUID
	OrgID  uuid.UUID
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == "admin"
}

func (p Principal) IsManager() bool {
	return p.Role == "manager"
}

func (p Principal) IsAccounts() bool {
	return p.Role == "accounts"
}

// CanManageContracts reports whether the principal may create, update or
// delete contracts. Accounts and plain staff get read-only access.
func (p Principal) CanManageContracts() bool {
	return p.IsAdmin() || p.IsManager()
}
