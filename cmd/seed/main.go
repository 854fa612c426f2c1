// Command seed fills the database with fake users, posts and follows.
package main

import (
	"flag"
	"log"

	"friendsapp/internal/cache"
	"friendsapp/internal/config"
	"friendsapp/internal/database"
	"friendsapp/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	follows := flag.Int("follows", 3, "Users each seeded user follows")
	shouldClean := flag.Bool("clean", true, "Delete existing users, posts and follows first")
	dryRun := flag.Bool("dry-run", false, "Build records without writing them")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 picks one)")
	flag.Parse()

	log.Printf("Seeding %d users, %d posts, %d follows per user (clean=%v dry-run=%v)",
		*numUsers, *numPosts, *follows, *shouldClean, *dryRun)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatalf("Refusing to seed a %s database", cfg.Env)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	// Connected so that cleanup also evicts cached users.
	cache.InitRedis(cfg.RedisURL)

	s, err := seed.NewSeeder(db, seed.Options{
		NumUsers:       *numUsers,
		NumPosts:       *numPosts,
		FollowsPerUser: *follows,
		BcryptCost:     cfg.BcryptCost,
		RandSeed:       *randSeed,
		DryRun:         *dryRun,
	})
	if err != nil {
		log.Fatalf("Failed to create seeder: %v", err)
	}

	if *shouldClean && !*dryRun {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	summary, err := s.Run()
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d posts, %d follows", len(summary.Users), summary.Posts, summary.Follows)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
