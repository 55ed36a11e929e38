package models

import "strings"

// Permission is a share permission level. The server understands the full
// vocabulary even though the client currently always grants PermissionAll
// when sharing; the finer levels still show up on records shared to us.
type Permission string

const (
	PermissionView     Permission = "VIEW"
	PermissionDownload Permission = "DOWNLOAD"
	PermissionEdit     Permission = "EDIT"
	PermissionAll      Permission = "ALL"
)

var permissionRank = map[Permission]int{
	PermissionView:     1,
	PermissionDownload: 2,
	PermissionEdit:     3,
	PermissionAll:      4,
}

// ParsePermission normalizes a permission string. Unknown values return
// false.
func ParsePermission(s string) (Permission, bool) {
	p := Permission(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := permissionRank[p]
	return p, ok
}

// Satisfies reports whether p grants at least the required level.
func (p Permission) Satisfies(required Permission) bool {
	return permissionRank[p] >= permissionRank[required]
}
