// Command finboard-token mints a bearer token for local development.
//
//	JWT_SECRET=... finboard-token -user alice -ttl 24h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"finboard/internal/auth"
	"finboard/internal/cli"
)

func main() {
	cli.LoadEnvFile()

	user := flag.String("user", "", "user id to embed in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	if len(secret) < 32 {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set to at least 32 characters")
		os.Exit(1)
	}
	if *user == "" {
		fmt.Fprintln(os.Stderr, "usage: finboard-token -user <id> [-ttl 24h]")
		os.Exit(2)
	}

	token, err := auth.IssueToken([]byte(secret), *user, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "issue token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
