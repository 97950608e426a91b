// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "strings"

// # User Roles

// Role represents the authorization level granted to an account.
type Role string

const (
	// Reviews, approves and rejects requests; manages users, projects and departments.
	RoleAdmin Role = "Admin"

	// Submits expenses and advances.
	RoleEmployee Role = "Employee"
)

// ParseRole normalizes a wire value ("admin", "ADMIN", "Admin") into a [Role].
// It returns false for anything outside the enum.
func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin, true
	case "employee":
		return RoleEmployee, true
	default:
		return "", false
	}
}

// Valid reports whether r is a member of the enum.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}
