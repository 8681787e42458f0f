// Command gen-token prints a bearer token accepted by the server's mutating routes.
package main

import (
	"flag"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"taskboard/internal/auth"
	"taskboard/internal/config"
)

func main() {
	subject := flag.String("subject", "operator", "subject recorded in the token")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to JWT_EXPIRY_HOURS")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if !cfg.AuthEnabled() {
		log.Fatal("JWT_SECRET is not set")
	}

	lifetime := cfg.JWTExpiry
	if *ttl > 0 {
		lifetime = *ttl
	}
	if *subject == "" {
		log.Fatal("subject must not be empty")
	}

	token, err := auth.NewIssuer(cfg.JWTSecret, lifetime).GenerateToken(*subject)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
	log.WithField("expires", time.Now().Add(lifetime).Format(time.RFC3339)).Debug("token issued")
}
