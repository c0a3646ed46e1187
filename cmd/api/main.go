package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	apicomments "comment_analysis/pkg/api/comments"
	apiconfig "comment_analysis/pkg/api/config"
	apimatches "comment_analysis/pkg/api/matches"
	apisections "comment_analysis/pkg/api/sections"
	"comment_analysis/pkg/core/llm"
	"comment_analysis/pkg/core/store"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize LLM manager from config
	configData, _ := os.ReadFile("config/models.yaml")
	var llmCfg llm.Config
	yaml.Unmarshal(configData, &llmCfg)
	llmMgr := llm.NewManager(llmCfg)

	ctx := context.Background()
	if err := store.InitDB(ctx, os.Getenv("DATABASE_URL")); err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	defer store.Close()
	pool := store.GetPool()

	// Config endpoints
	configHandler := apiconfig.NewHandler(llmMgr)
	http.HandleFunc("/api/config", configHandler.HandleConfig)
	http.HandleFunc("/api/config/switch", configHandler.HandleSwitch)

	// Section endpoints
	sectionsHandler := apisections.NewHandler(store.NewSectionsRepo(pool))
	http.HandleFunc("/api/sections", sectionsHandler.HandleList)
	http.HandleFunc("/api/sections/extract", sectionsHandler.HandleExtract)

	// Comment endpoints
	commentsHandler := apicomments.NewHandler(store.NewCommentsRepo(pool))
	http.HandleFunc("/api/comments", commentsHandler.HandleList)
	http.HandleFunc("/api/comments/ingest", commentsHandler.HandleIngest)

	// Match endpoints
	matchesHandler := apimatches.NewHandler(store.NewMatchesRepo(pool))
	http.HandleFunc("/api/matches", matchesHandler.HandleList)
	http.HandleFunc("/api/matches/top-sections", matchesHandler.HandleTopSections)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Comment analysis API listening on :%s\n", port)
	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
