package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menu-planner/internal/app"
	"menu-planner/internal/config"
	"menu-planner/internal/database"
	"menu-planner/internal/grocery"
	"menu-planner/internal/llm"
	"menu-planner/internal/mealplan"
	"menu-planner/internal/recipe"
	"menu-planner/internal/web"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// 2. Initialize the LLM the normalizer runs on
	var textGen llm.TextGenerator
	switch cfg.LLMProvider {
	case config.ProviderGroq:
		textGen = llm.NewGroqClient(cfg, cfg.GroqModel, 0.1)
	default:
		geminiClient, err := llm.NewGeminiClient(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		textGen = geminiClient
	}

	// 3. Initialize the SQLite database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// 4. Initialize repositories and the pipeline
	recipeRepo := recipe.NewRepository(db.SQL)
	planRepo := mealplan.NewRepository(db.SQL)
	groceryRepo := grocery.NewRepository(db.SQL)

	application := app.NewApp(recipeRepo, planRepo, groceryRepo, grocery.NewLLMNormalizer(textGen))

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: web.NewServer(recipeRepo, planRepo, application).Router(),
	}

	go func() {
		log.Printf("Menu planner server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
