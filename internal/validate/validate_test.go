package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strp(s string) *string { return &s }

func TestApplyCollectsAllViolations(t *testing.T) {
	rules := []Rule{
		Required("name", "name is required"),
		Required("email", "email is required"),
	}
	errs := Apply(rules, Fields{})
	require.Len(t, errs, 2)
	assert.Equal(t, []string{"name is required", "email is required"}, errs)
}

func TestRequired(t *testing.T) {
	r := Required("name", "name is required")

	assert.True(t, r.Check(Fields{"name": strp("Alice")}))
	assert.False(t, r.Check(Fields{"name": strp("")}))
	assert.False(t, r.Check(Fields{"name": nil}))
	assert.False(t, r.Check(Fields{}))
}

func TestEmail(t *testing.T) {
	r := Email("email", "email is invalid")

	assert.True(t, r.Check(Fields{"email": strp("a@b.co")}))
	assert.True(t, r.Check(Fields{}), "absent field passes")
	assert.False(t, r.Check(Fields{"email": strp("nope")}))
	assert.False(t, r.Check(Fields{"email": strp("a b@c.co")}))
	assert.False(t, r.Check(Fields{"email": strp("a@b")}))
}

func TestLenBetween(t *testing.T) {
	r := LenBetween("password", 8, 50, "bad length")

	assert.True(t, r.Check(Fields{"password": strp("12345678")}))
	assert.True(t, r.Check(Fields{}), "absent field passes")
	assert.False(t, r.Check(Fields{"password": strp("short")}))
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	assert.False(t, r.Check(Fields{"password": strp(string(long))}))
}

func TestOneOf(t *testing.T) {
	r := OneOf("status", []string{"ACTIVE", "ARCHIVED"}, "bad status")

	assert.True(t, r.Check(Fields{"status": strp("ACTIVE")}))
	assert.True(t, r.Check(Fields{}), "absent field passes")
	assert.False(t, r.Check(Fields{"status": strp("active")}), "enum is case-sensitive after parsing")
	assert.False(t, r.Check(Fields{"status": strp("DELETED")}))
}

func TestRequiredWith(t *testing.T) {
	r := RequiredWith("passwordConfirm", "password", "confirmation required")

	assert.True(t, r.Check(Fields{}), "neither present")
	assert.True(t, r.Check(Fields{"passwordConfirm": strp("x")}), "only the dependent present")
	assert.True(t, r.Check(Fields{"password": strp("secret123"), "passwordConfirm": strp("secret123")}))
	assert.False(t, r.Check(Fields{"password": strp("secret123")}))
	assert.False(t, r.Check(Fields{"password": strp("secret123"), "passwordConfirm": strp("")}))
}

func TestMatches(t *testing.T) {
	r := Matches("passwordConfirm", "password", "mismatch")

	assert.True(t, r.Check(Fields{"password": strp("secret123"), "passwordConfirm": strp("secret123")}))
	assert.True(t, r.Check(Fields{"password": strp("secret123")}), "absent confirmation passes here; RequiredWith catches it")
	assert.False(t, r.Check(Fields{"password": strp("secret123"), "passwordConfirm": strp("other")}))
}

func TestUserCreateTable(t *testing.T) {
	tests := []struct {
		name   string
		fields Fields
		want   []string
	}{
		{
			name: "valid body",
			fields: Fields{
				"name":            strp("Alice"),
				"email":           strp("alice@example.com"),
				"password":        strp("secret123"),
				"passwordConfirm": strp("secret123"),
			},
			want: nil,
		},
		{
			name:   "empty body reports every missing field",
			fields: Fields{},
			want: []string{
				"name is required",
				"email is required",
				"password is required",
			},
		},
		{
			name: "confirmation mismatch",
			fields: Fields{
				"name":            strp("Alice"),
				"email":           strp("alice@example.com"),
				"password":        strp("secret123"),
				"passwordConfirm": strp("secret124"),
			},
			want: []string{"password confirmation does not match"},
		},
		{
			name: "bad email and short password together",
			fields: Fields{
				"name":     strp("Alice"),
				"email":    strp("not-an-email"),
				"password": strp("short"),
			},
			want: []string{
				"email is invalid",
				"password must be between 8 and 50 characters",
			},
		},
		{
			name: "bad enum values",
			fields: Fields{
				"name":     strp("Alice"),
				"email":    strp("alice@example.com"),
				"password": strp("secret123"),
				"status":   strp("SLEEPING"),
				"role":     strp("ROOT"),
			},
			want: []string{
				"status must be ACTIVE or INACTIVE",
				"role must be USER or ADMIN",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Apply(UserCreate, tt.fields))
		})
	}
}

func TestUserUpdateTable(t *testing.T) {
	t.Run("empty body is a valid no-op update", func(t *testing.T) {
		assert.Nil(t, Apply(UserUpdate, Fields{}))
	})

	t.Run("name alone passes", func(t *testing.T) {
		assert.Nil(t, Apply(UserUpdate, Fields{"name": strp("Bob")}))
	})

	t.Run("password without confirmation", func(t *testing.T) {
		errs := Apply(UserUpdate, Fields{
			"oldPassword": strp("oldsecret1"),
			"password":    strp("newsecret1"),
		})
		assert.Equal(t, []string{"password confirmation is required"}, errs)
	})

	t.Run("old password given but no new password", func(t *testing.T) {
		errs := Apply(UserUpdate, Fields{"oldPassword": strp("oldsecret1")})
		assert.Equal(t, []string{"new password is required when old password is given"}, errs)
	})
}

func TestCustomerTables(t *testing.T) {
	t.Run("create requires name and email", func(t *testing.T) {
		errs := Apply(CustomerCreate, Fields{})
		assert.Equal(t, []string{"name is required", "email is required"}, errs)
	})

	t.Run("update allows partial bodies", func(t *testing.T) {
		assert.Nil(t, Apply(CustomerUpdate, Fields{"status": strp("ARCHIVED")}))
	})

	t.Run("contacts share the customer contract", func(t *testing.T) {
		errs := Apply(ContactCreate, Fields{"name": strp("Ops"), "email": strp("bad")})
		assert.Equal(t, []string{"email is invalid"}, errs)
	})
}
