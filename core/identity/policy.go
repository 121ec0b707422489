package identity

import "strings"

// AllowedDomain reports whether the email belongs to the allowed
// organizational domain. An empty email is always disallowed.
func AllowedDomain(email, domain string) bool {
	if email == "" || domain == "" {
		return false
	}
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(email[at+1:], domain)
}

// DeriveRole computes the default role for a sign-in: teacher, upgraded to
// admin when the email's local part contains any configured marker.
func DeriveRole(email string, adminMarkers []string) string {
	local := email
	if at := strings.LastIndex(email, "@"); at >= 0 {
		local = email[:at]
	}
	for _, marker := range adminMarkers {
		if marker != "" && strings.Contains(local, marker) {
			return RoleAdmin
		}
	}
	return RoleTeacher
}
