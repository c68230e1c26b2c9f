// Command admin-token mints an access token for the reporting API. Tokens
// are scoped to one organization and expire after JWT_TTL.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"easypcm_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
)

func main() {
	userID := flag.String("user", "", "subject user id to embed in the token")
	orgID := flag.Int64("org", 0, "organization id the token is scoped to")
	flag.Parse()

	if *userID == "" || *orgID == 0 {
		fmt.Fprintln(os.Stderr, "usage: admin-token -user <id> -org <org-id>")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}
	if cfg.GetJWTSecret() == "" {
		fmt.Fprintln(os.Stderr, "JWT_SECRET is required")
		os.Exit(1)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":    *userID,
		"org_id": *orgID,
		"iat":    now.Unix(),
		"exp":    now.Add(cfg.GetJWTTTL()).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.GetJWTSecret()))
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to sign token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
