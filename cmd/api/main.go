package main

import (
	"database/sql"
	"flag"
	"log"

	"github.com/jotdown-io/jotdown/internal/api"
	"github.com/jotdown-io/jotdown/internal/config"
	"github.com/jotdown-io/jotdown/internal/database"
)

const version = "0.1.0"

func initializeAPI(configPath string) (*api.Api, *sql.DB, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	a, err := api.NewApi(*cfg, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	return a, db, nil
}

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	log.Printf("Starting jotdown API v%s with config: %s", version, *configPath)

	a, db, err := initializeAPI(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	a.Serve()
}
