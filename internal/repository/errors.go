// Package repository contains data access logic separated from HTTP
// handlers. Sentinel errors let handlers map failures to status codes
// without inspecting driver errors.
package repository

import "errors"

// Not-found sentinels. A contact that exists under a different customer
// also reports ErrContactNotFound: scope misses must be indistinguishable
// from missing rows.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrContactNotFound  = errors.New("contact not found")
)

// ErrEmailExists is returned when an email is already used by another
// entity of the same type. Unique indexes back this up against races.
var ErrEmailExists = errors.New("email already exists")
