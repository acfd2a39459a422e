package person

import "time"

type Role string

const (
	RoleAdmin  Role = "admin"   // Secretariat coordinator, edits the roster and inventory
	RoleMember Role = "anggota" // Duty member, checks in and out
)

// Person is a secretariat member. Other domains only reference people by ID.
type Person struct {
	ID           string
	Username     string
	DisplayName  string
	Division     string
	Role         Role
	PasswordHash *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p *Person) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// IDs returns the person IDs in the given order.
func IDs(people []Person) []string {
	ids := make([]string, 0, len(people))
	for _, p := range people {
		ids = append(ids, p.ID)
	}
	return ids
}
