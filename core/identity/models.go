package identity

import "time"

// Roles
const (
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// Identity is a verified credential as the identity provider returns it.
// Role carries the custom claim and may be empty for a brand-new identity.
type Identity struct {
	UID   string
	Email string
	Role  string
}

// Principal is the verified identity attached to a request.
// It is derived per request from a credential, never from stored state.
type Principal struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// NewPrincipal derives the request Principal from a verified Identity.
// An identity with no role claim yet gets the least-privileged role.
func NewPrincipal(id Identity) Principal {
	role := id.Role
	if role == "" {
		role = RoleTeacher
	}
	return Principal{UID: id.UID, Email: id.Email, Role: role}
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Profile is the cached user record, merge-upserted on every successful
// sign-in. The durable role claim on the credential remains the source of
// truth for authorization; this is a read model.
type Profile struct {
	UID       string    `json:"uid"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	LastLogin time.Time `json:"lastLogin"` // UTC
}
