// Package permission defines the role ranks used for every authorization decision.
package permission

import (
	"fmt"
	"strings"
)

// Role names a user's authority level.
type Role string

const (
	Staff    Role = "staff"
	Security Role = "security"
	Manager  Role = "manager"
	Admin    Role = "admin"
)

var ranks = map[Role]int{
	Staff:    0,
	Security: 1,
	Manager:  2,
	Admin:    3,
}

// Roles returns every role from lowest to highest rank.
func Roles() []Role {
	return []Role{Staff, Security, Manager, Admin}
}

// Rank returns the position of role in the total order, or -1 for unknown roles.
func Rank(role Role) int {
	if rank, ok := ranks[role]; ok {
		return rank
	}
	return -1
}

// Valid reports whether role is one of the known roles.
func Valid(role Role) bool {
	_, ok := ranks[role]
	return ok
}

// Allows reports whether a user holding role may perform an action requiring required.
// Unknown roles on either side are never allowed.
func Allows(role, required Role) bool {
	have := Rank(role)
	need := Rank(required)
	if have < 0 || need < 0 {
		return false
	}
	return have >= need
}

// ParseRole normalises and validates a role name.
func ParseRole(value string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(value)))
	if !Valid(role) {
		return "", fmt.Errorf("invalid role %q", value)
	}
	return role, nil
}

// Normalize maps an arbitrary value to a role, returning "" when it is not recognised.
func Normalize(value string) Role {
	role, err := ParseRole(value)
	if err != nil {
		return ""
	}
	return role
}

// Pages maps dashboard pages to the minimum role that may open them.
var Pages = map[string]Role{
	"dashboard":      Staff,
	"venues":         Staff,
	"incidents":      Staff,
	"notifications":  Staff,
	"securitySignIn": Security,
	"cctvRegister":   Security,
	"reports":        Manager,
	"settings":       Manager,
	"users":          Admin,
}

// PageAllowed reports whether role may open page. Unknown pages require admin.
func PageAllowed(role Role, page string) bool {
	required, ok := Pages[page]
	if !ok {
		required = Admin
	}
	return Allows(role, required)
}

// VisiblePages lists the pages role may open.
func VisiblePages(role Role) map[string]bool {
	visible := make(map[string]bool, len(Pages))
	for page, required := range Pages {
		visible[page] = Allows(role, required)
	}
	return visible
}
