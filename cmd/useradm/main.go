package main

import (
	"flag"
	"log"

	"github.com/jotdown-io/jotdown/internal/auth"
	"github.com/jotdown-io/jotdown/internal/config"
	"github.com/jotdown-io/jotdown/internal/database"
)

// There is no registration endpoint; accounts are provisioned with this tool.
func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	email := flag.String("email", "", "Email address for the new user")
	password := flag.String("password", "", "Password for the new user")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("Both -email and -password are required")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatal(err)
	}

	users := auth.NewUserStore(db, cfg.Database.Type)
	user, err := users.Create(*email, hash)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	log.Printf("Created user %d (%s)", user.ID, user.Email)
}
