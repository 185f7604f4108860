// Package main provides a one-shot utility for minting bearer tokens.
//
// It signs a token for the given identity with the same secret the server
// reads from SUSU_TOKEN_SECRET, so operators can hand out credentials
// without going through the server.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mmynk/susu/internal/auth"
	"github.com/mmynk/susu/internal/models"
)

func main() {
	identity := flag.String("identity", "", "identity to mint a token for")
	fresh := flag.Bool("new", false, "mint a random identity instead of -identity")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("SUSU_TOKEN_SECRET")
	if secret == "" {
		exitf("SUSU_TOKEN_SECRET is not set")
	}

	id := *identity
	if *fresh {
		id = randomIdentity()
	}
	if id == "" {
		exitf("either -identity or -new is required")
	}

	token, err := auth.NewTokenManager(secret, *ttl).Generate(models.Identity(id))
	if err != nil {
		exitf("generate token: %v", err)
	}

	if *fresh {
		fmt.Printf("identity: %s\n", id)
	}
	fmt.Println(token)
}

// randomIdentity mints a 20-byte hex identity in the 0x form the ledger
// rails use for addresses.
func randomIdentity() string {
	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		exitf("read random bytes: %v", err)
	}
	return "0x" + hex.EncodeToString(buf)
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
