package identity

import "testing"

func TestAllowedDomain(t *testing.T) {
	tests := []struct {
		name   string
		email  string
		domain string
		want   bool
	}{
		{name: "allowed", email: "wang@tp.edu.tw", domain: "tp.edu.tw", want: true},
		{name: "case insensitive", email: "wang@TP.EDU.TW", domain: "tp.edu.tw", want: true},
		{name: "other domain", email: "wang@gmail.com", domain: "tp.edu.tw", want: false},
		{name: "subdomain is not the domain", email: "wang@mail.tp.edu.tw", domain: "tp.edu.tw", want: false},
		{name: "empty email", email: "", domain: "tp.edu.tw", want: false},
		{name: "no at sign", email: "wang", domain: "tp.edu.tw", want: false},
		{name: "empty domain", email: "wang@tp.edu.tw", domain: "", want: false},
		{name: "last at wins", email: "wang@evil.com@tp.edu.tw", domain: "tp.edu.tw", want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllowedDomain(tt.email, tt.domain); got != tt.want {
				t.Errorf("AllowedDomain(%q, %q) = %v; want %v", tt.email, tt.domain, got, tt.want)
			}
		})
	}
}

func TestDeriveRole(t *testing.T) {
	markers := []string{"admin", "affair"}

	tests := []struct {
		name  string
		email string
		want  string
	}{
		{name: "plain teacher", email: "wang@tp.edu.tw", want: RoleTeacher},
		{name: "admin marker", email: "admin01@tp.edu.tw", want: RoleAdmin},
		{name: "marker mid local part", email: "schooladmin@tp.edu.tw", want: RoleAdmin},
		{name: "affair marker", email: "student.affairs@tp.edu.tw", want: RoleAdmin},
		{name: "marker in domain only", email: "wang@admin.tp.edu.tw", want: RoleTeacher},
		{name: "no email", email: "", want: RoleTeacher},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveRole(tt.email, markers); got != tt.want {
				t.Errorf("DeriveRole(%q) = %q; want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "ok", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "missing header", header: "", wantErr: ErrMissingCredential},
		{name: "wrong scheme", header: "Basic abc", wantErr: ErrMissingCredential},
		{name: "empty token", header: "Bearer ", wantErr: ErrMissingCredential},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if err != tt.wantErr {
				t.Fatalf("BearerToken() error = %v; wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("BearerToken() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestNewPrincipal(t *testing.T) {
	prin := NewPrincipal(Identity{UID: "u1", Email: "wang@tp.edu.tw"})
	if prin.Role != RoleTeacher {
		t.Errorf("role = %q; want %q", prin.Role, RoleTeacher)
	}
	if prin.IsAdmin() {
		t.Error("fresh identity must not be admin")
	}

	prin = NewPrincipal(Identity{UID: "u2", Email: "admin@tp.edu.tw", Role: RoleAdmin})
	if !prin.IsAdmin() {
		t.Error("admin claim must carry over")
	}
}
