package main

import (
	"context"
	"log"
	"os"

	"github.com/amara/scholarfind/internal/api"
	"github.com/amara/scholarfind/internal/content"
	"github.com/amara/scholarfind/internal/db"
	"github.com/amara/scholarfind/internal/storage"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	contentFile := os.Getenv("CONTENT_FILE")
	if contentFile == "" {
		contentFile = "data/content.json"
	}

	storageDir := os.Getenv("STORAGE_DIR")
	if storageDir == "" {
		storageDir = "uploads"
	}
	filesBaseURL := os.Getenv("FILES_BASE_URL")
	if filesBaseURL == "" {
		filesBaseURL = "/files"
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := db.ApplyMigrations(ctx, pool); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	index, err := content.LoadFile(contentFile)
	if err != nil {
		log.Fatalf("Failed to load content index %s: %v", contentFile, err)
	}
	log.Printf("Loaded %d opportunities and %d blog posts", len(index.Opportunities()), len(index.BlogPosts()))

	files := storage.NewDisk(storageDir, filesBaseURL)

	srv := api.NewServer(pool, index, files)
	srv.Echo.Static(filesBaseURL, files.Root())

	if err := srv.Store.SyncBlogPosts(ctx, index.BlogPostIDs()); err != nil {
		log.Fatalf("Failed to sync blog counters: %v", err)
	}

	log.Printf("Server starting on port %s...", port)
	if err := srv.Start(port); err != nil {
		log.Fatal(err)
	}
}
