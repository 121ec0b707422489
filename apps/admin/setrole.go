package main

import (
	"context"
	"fmt"

	"github.com/trezcool/karatasi/core"
	"github.com/trezcool/karatasi/core/identity"
)

// setRole durably sets the role custom claim for a uid and keeps the cached
// profile in sync so listings reflect it immediately.
func (cli *commandLine) setRole(uid, email, role string) error {
	uid = core.CleanString(uid)
	email = core.CleanString(email, true /* lower */)
	role = core.CleanString(role, true /* lower */)

	if role != identity.RoleTeacher && role != identity.RoleAdmin {
		return fmt.Errorf("unknown role %q", role)
	}

	ctx := context.Background()
	if err := cli.claims.SetRoleClaim(ctx, uid, role); err != nil {
		return err
	}
	// zero LastLogin merges away; the profile keeps its real last sign-in
	if _, err := cli.profRepo.UpsertProfile(ctx, identity.Profile{
		UID:   uid,
		Email: email,
		Role:  role,
	}); err != nil {
		return err
	}
	return nil
}
