package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/KirkDiggler/roomserver/internal/auth"
	"github.com/KirkDiggler/roomserver/internal/config"
	"github.com/KirkDiggler/roomserver/internal/entities"
)

func main() {
	userID := flag.String("user", "", "user id (token subject)")
	username := flag.String("name", "", "display name, defaults to the user id")
	roles := flag.String("roles", "user", "comma separated roles")
	ttl := flag.Duration("ttl", time.Hour, "token lifetime")
	flag.Parse()

	if *userID == "" {
		fmt.Println("Usage: mint-token -user <id> [-name <name>] [-roles user,admin] [-ttl 1h]")
		os.Exit(1)
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	identity := entities.Identity{UserID: *userID, Username: *username}
	for _, r := range strings.Split(*roles, ",") {
		if r = strings.TrimSpace(r); r != "" {
			identity.Roles = append(identity.Roles, entities.Role(r))
		}
	}

	token, err := auth.Mint(&auth.JWTConfig{
		Secret: []byte(cfg.Auth.JWTSecret),
		Issuer: cfg.Auth.Issuer,
	}, identity, *ttl)
	if err != nil {
		log.Fatalf("Failed to mint token: %v", err)
	}
	fmt.Println(token)
}
