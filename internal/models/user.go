package models

// Role is the closed-set authorization tag on a user profile. Anything
// outside the known set routes to the public landing page.
type Role string

const (
	RoleAdmin                 Role = "admin"
	RoleCenterSupervisor      Role = "center_supervisor"
	RoleAssociationSupervisor Role = "association_supervisor"
	RoleTrainer               Role = "trainer"
	RoleStudent               Role = "student"
)

// Known reports whether the role belongs to the closed set.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleCenterSupervisor, RoleAssociationSupervisor, RoleTrainer, RoleStudent:
		return true
	}
	return false
}

// UserProfile is the read-only projection of the authenticated principal
// returned by the backend's current-user endpoint.
type UserProfile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username,omitempty"`

	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`

	Role        Role   `json:"role"`
	RoleDisplay string `json:"role_display,omitempty"`

	ProfilePicture string `json:"profile_picture,omitempty"`
	BirthDate      string `json:"birth_date,omitempty"`
	BirthCity      string `json:"birth_city,omitempty"`
	NationalID     string `json:"national_id,omitempty"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Address        string `json:"address,omitempty"`
	City           string `json:"city,omitempty"`
	DateJoined     string `json:"date_joined,omitempty"`
	IsActive       bool   `json:"is_active,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
	UpdatedAt      string `json:"updated_at,omitempty"`
}

// FullName returns the display name used in log fields and the CLI.
func (u *UserProfile) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
