/* main.go
 * The "main" method for running the bot. For details about the bot see `readme.md`
 * Usage: go run main.go
 * Authors: Zachary Bower
 */

package main

import (
	"log"

	"teamreg-bot/bot"
	"teamreg-bot/config"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; deployments can set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	b, err := bot.NewBot(cfg.DiscordToken, logger)
	if err != nil {
		logger.Fatal("failed to initialize bot", zap.Error(err))
	}

	if err := b.Run(); err != nil {
		logger.Fatal("bot exited", zap.Error(err))
	}
}

// newLogger builds a production zap logger at the configured level
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}
