// Command main runs the database seeder for Gymvy.
package main

import (
	"context"
	"flag"
	"log"

	"gymvy/internal/config"
	"gymvy/internal/database"
	"gymvy/internal/seed"
)

func main() {
	defaults := seed.DefaultOptions()
	numUsers := flag.Int("users", defaults.NumUsers, "Number of users to create")
	numPosts := flag.Int("posts", defaults.NumPosts, "Number of posts to create")
	follows := flag.Int("follows", defaults.FollowsPerUser, "Outgoing follows per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Generate data without writing it")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible data (0 = time based)")
	flag.Parse()

	log.Printf("Target: %d users, %d posts, %d follows each, clean=%v\n", *numUsers, *numPosts, *follows, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:       *numUsers,
		NumPosts:       *numPosts,
		FollowsPerUser: *follows,
		ShouldClean:    *shouldClean,
		Factory:        seed.FactoryOptions{DryRun: *dryRun, RandSeed: *randSeed},
	})
	sum, err := s.Run(context.Background())
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d follows, %d posts, %d likes, %d comments, %d comment likes",
		sum.Users, sum.Follows, sum.Posts, sum.Likes, sum.Comments, sum.CommentLikes)
}
