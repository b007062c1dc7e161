package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/mudforge/mudcore/internal/config"
	"github.com/mudforge/mudcore/internal/repositories/characters"
	rulebookrepo "github.com/mudforge/mudcore/internal/repositories/rulebook"
	"github.com/mudforge/mudcore/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the engine loop",
	Long:  `Starts the convergence driver and keeps the engine running until interrupted.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	rulebook, err := rulebookrepo.LoadFile(cfg.Engine.RulebookPath)
	if err != nil {
		return err
	}

	policy, err := config.LoadPolicy(cfg.Engine.PolicyPath)
	if err != nil {
		return err
	}

	providerCfg := &services.ProviderConfig{
		Rulebook:            rulebook,
		Policy:              policy,
		ConvergenceInterval: cfg.Engine.ConvergenceInterval,
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisClient.Ping(pingCtx).Err()
		pingCancel()
		if err != nil {
			log.Printf("Failed to connect to Redis at %s: %v", cfg.Redis.Addr, err)
			log.Println("Falling back to in-memory repositories")
			_ = redisClient.Close()
			redisClient = nil
		} else {
			log.Printf("Connected to Redis at %s", cfg.Redis.Addr)
			providerCfg.CharacterRepository = characters.NewRedisRepository(redisClient)
		}
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("Failed to close Redis client: %v", err)
			}
		}()
	}

	provider, err := services.NewProvider(providerCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	provider.Driver.Start(ctx)
	log.Printf("Engine running, convergence every %s", cfg.Engine.ConvergenceInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal, gracefully stopping...")
	provider.Driver.Stop()

	saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer saveCancel()
	if err := provider.RosterService.SaveAll(saveCtx); err != nil {
		log.Printf("Failed to checkpoint live characters: %v", err)
	}

	log.Println("Engine stopped")
	return nil
}
