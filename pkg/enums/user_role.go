package enums

// UserRole identifies the back-office role carried in access tokens.
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
)

func (r UserRole) String() string { return string(r) }

// IsValid reports whether the role is a known value.
func (r UserRole) IsValid() bool {
	return r == UserRoleAdmin
}
