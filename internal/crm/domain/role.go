package domain

// Role is one of four privilege tiers, totally ordered from viewer up to
// admin. Comparisons between roles go through Level so the ordering lives in
// exactly one place.
type Role string

const (
	RoleViewer  Role = "viewer"
	RoleAgent   Role = "agent"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

// Level returns the privilege rank of the role. Unknown values rank below
// viewer so a corrupted role string never grants access.
func (r Role) Level() int {
	switch r {
	case RoleViewer:
		return 0
	case RoleAgent:
		return 1
	case RoleManager:
		return 2
	case RoleAdmin:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether r holds the privileges of min or higher.
func (r Role) AtLeast(min Role) bool {
	return r.Level() >= min.Level()
}

// Valid reports whether r is one of the four known tiers.
func (r Role) Valid() bool {
	return r.Level() >= 0
}

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}
