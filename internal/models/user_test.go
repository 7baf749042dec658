package models

import "testing"

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleCustomer, RoleRider, RoleAdmin} {
		if !r.Valid() {
			t.Fatalf("%q should be valid", r)
		}
	}
	for _, r := range []Role{"", "Admin", "ADMIN", "superuser", "driver"} {
		if r.Valid() {
			t.Fatalf("%q should be invalid", r)
		}
	}
}
