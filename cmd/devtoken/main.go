// Command devtoken mints an access token signed with JWT_SECRET so the
// ticket endpoints can be exercised locally without the membership
// provider.
//
//	devtoken -member 42 -role MEMBER -ttl 1h
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/iliyamo/cinema-club/internal/authtoken"
	"github.com/iliyamo/cinema-club/internal/config"
)

func main() {
	member := flag.Uint64("member", 0, "member id (token subject)")
	role := flag.String("role", "MEMBER", "MEMBER or ADMIN")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		slog.Error("load env", "error", err)
		os.Exit(1)
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" || *member == 0 {
		fmt.Fprintln(os.Stderr, "JWT_SECRET must be set and -member must be positive")
		flag.Usage()
		os.Exit(2)
	}

	tok, err := authtoken.Issue(secret, os.Getenv("JWT_ISSUER"), *member, strings.ToUpper(*role), *ttl)
	if err != nil {
		slog.Error("sign token", "error", err)
		os.Exit(1)
	}
	fmt.Println(tok.Token)
}
