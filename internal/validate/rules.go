package validate

import "github.com/iliyamo/customer-contacts-api/internal/model"

// Rule tables for each entity, mirrored from the API's create/update
// contracts. Update tables treat every field as optional; format and
// enum rules still apply when a field is supplied.

var UserCreate = []Rule{
	Required("name", "name is required"),
	Required("email", "email is required"),
	Email("email", "email is invalid"),
	Required("password", "password is required"),
	LenBetween("password", 8, 50, "password must be between 8 and 50 characters"),
	Matches("passwordConfirm", "password", "password confirmation does not match"),
	OneOf("status", model.UserStatuses, "status must be ACTIVE or INACTIVE"),
	OneOf("role", model.UserRoles, "role must be USER or ADMIN"),
}

var UserUpdate = []Rule{
	Email("email", "email is invalid"),
	LenBetween("oldPassword", 8, 50, "old password must be between 8 and 50 characters"),
	LenBetween("password", 8, 50, "password must be between 8 and 50 characters"),
	RequiredWith("password", "oldPassword", "new password is required when old password is given"),
	RequiredWith("passwordConfirm", "password", "password confirmation is required"),
	Matches("passwordConfirm", "password", "password confirmation does not match"),
	OneOf("status", model.UserStatuses, "status must be ACTIVE or INACTIVE"),
	OneOf("role", model.UserRoles, "role must be USER or ADMIN"),
}

var CustomerCreate = []Rule{
	Required("name", "name is required"),
	Required("email", "email is required"),
	Email("email", "email is invalid"),
	OneOf("status", model.CustomerStatuses, "status must be ACTIVE or ARCHIVED"),
}

var CustomerUpdate = []Rule{
	Email("email", "email is invalid"),
	OneOf("status", model.CustomerStatuses, "status must be ACTIVE or ARCHIVED"),
}

// Contacts share the customer status enum and field contract.
var (
	ContactCreate = CustomerCreate
	ContactUpdate = CustomerUpdate
)
