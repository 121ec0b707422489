package main

import (
	"fmt"
	"time"

	identsvc "github.com/trezcool/karatasi/services/identity"
)

// mintToken signs a development token so the API can be exercised without
// the frontend sign-in flow.
func (cli *commandLine) mintToken(secret []byte, uid, email, role string, ttl time.Duration) error {
	token, err := identsvc.MintToken(secret, uid, email, role, ttl)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
