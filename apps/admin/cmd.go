package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/karatasi/core"
	"github.com/trezcool/karatasi/core/identity"
	identsvc "github.com/trezcool/karatasi/services/identity"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf     *core.Config
	db       *sqlx.DB
	claims   identsvc.ClaimStore
	profRepo identity.Repository
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  migrate COMMAND [ARGS] - run database migrations (up, down, status, ...)")
	fmt.Println("  setrole -uid UID -email EMAIL -role ROLE - durably set a user's role claim")
	fmt.Println("  minttoken -uid UID -email EMAIL [-role ROLE] [-ttl TTL] - mint a signed token for development")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	setRoleCmd := flag.NewFlagSet("setrole", flag.ExitOnError)
	setRoleUID := setRoleCmd.String("uid", "", "The user's uid at the identity provider.")
	setRoleEmail := setRoleCmd.String("email", "", "The user's email.")
	setRoleRole := setRoleCmd.String("role", "", "The role to set: teacher or admin.")

	mintTokenCmd := flag.NewFlagSet("minttoken", flag.ExitOnError)
	mintTokenUID := mintTokenCmd.String("uid", "", "The token subject's uid.")
	mintTokenEmail := mintTokenCmd.String("email", "", "The token subject's email.")
	mintTokenRole := mintTokenCmd.String("role", identity.RoleTeacher, "The role claim to embed.")
	mintTokenTTL := mintTokenCmd.Duration("ttl", 24*time.Hour, "Token lifetime. The signing secret will be prompted next.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "setrole":
		if err := setRoleCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setRoleUID == "" || *setRoleEmail == "" || *setRoleRole == "" {
			setRoleCmd.Usage()
			return errHelp
		}
		return cli.setRole(*setRoleUID, *setRoleEmail, *setRoleRole)
	case "minttoken":
		if err := mintTokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *mintTokenUID == "" || *mintTokenEmail == "" {
			mintTokenCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter signing secret:")
		secret, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(secret) == 0 {
			mintTokenCmd.Usage()
			return errHelp
		}
		return cli.mintToken(secret, *mintTokenUID, *mintTokenEmail, *mintTokenRole, *mintTokenTTL)
	default:
		cli.printUsage()
		return errHelp
	}
}
