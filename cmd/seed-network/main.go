package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/rumbo-transit/rumbo_core/internal/db"
	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/loader"
)

func main() {
	log.Println("🔄 Rumbo Core - Network Seed Tool")
	log.Println("=================================")

	dataPath := flag.String("data", "data/bogota_sitp.json", "network definition file")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	// Parse and validate the definition before touching the database
	cfg, err := loader.LoadFile(*dataPath)
	if err != nil {
		log.Fatalf("❌ Failed to load network file: %v", err)
	}
	if _, err := graph.NewNetwork(cfg); err != nil {
		log.Fatalf("❌ Network definition is invalid: %v", err)
	}
	log.Printf("📊 Definition: %d stations, %d links, transfer penalty %d min",
		len(cfg.Stations), len(cfg.Links), cfg.TransferPenalty)

	log.Println("📡 Connecting to database...")
	pool, err := db.GetDB()
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("✅ Database connected")

	if !*yes {
		fmt.Println()
		fmt.Println("⚠️  This will REPLACE the stored network definition!")
		fmt.Print("Continue? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)

		if confirm != "yes" && confirm != "y" {
			log.Println("❌ Seed cancelled")
			os.Exit(0)
		}
	}

	log.Println("🔄 Seeding network...")
	startTime := time.Now()

	if err := loader.SeedNetwork(context.Background(), pool, cfg); err != nil {
		log.Fatalf("❌ Failed to seed network: %v", err)
	}

	log.Println("✅ Network seeded!")
	log.Printf("⏱️  Duration: %v", time.Since(startTime))
	log.Println("🚀 Start the API with NETWORK_SOURCE=postgres to use it")
}
