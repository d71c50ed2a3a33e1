/* bot.go
 * Contains the Bot struct and constructor. Requires a discord bot token;
 * the tournament service is wired up in Run once the session exists
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"

	"teamreg-bot/tournament"

	"go.uber.org/zap"
)

type Bot struct {
	BotToken   string
	Tournament *tournament.Tournament
	Log        *zap.Logger
}

func NewBot(botToken string, log *zap.Logger) (*Bot, error) {
	if botToken == "" {
		return nil, fmt.Errorf("botToken is required but none was provided")
	}

	return &Bot{
		BotToken: botToken,
		Log:      log,
	}, nil
}
