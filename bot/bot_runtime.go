//go:build !test

/* bot_runtime.go
 * Contains runtime-only Discord bot methods that use *discordgo.Session directly.
 * Delegates to testable handlers in handlers.go to avoid code duplication.
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"teamreg-bot/tournament"
	"teamreg-bot/tournament/shared"

	"github.com/bwmarrin/discordgo"
)

// Run starts the Discord bot, the minute scheduler and listens for messages
func (b *Bot) Run() error {
	// create a session
	discord, err := discordgo.New("Bot " + b.BotToken)
	if err != nil {
		return err
	}
	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	// the platform adapter grants itself channel access, so it needs the bot's own id
	me, err := discord.User("@me")
	if err != nil {
		return fmt.Errorf("looking up bot user: %w", err)
	}
	b.Tournament = tournament.New(NewDiscordPlatform(discord, me.ID, b.Log), b.Log)

	// add a event handler
	discord.AddHandler(b.newMessage)

	// open session
	if err := discord.Open(); err != nil {
		return err
	}
	defer discord.Close() // close session, after function termination

	// run the background checks once a minute: scheduled auto-open and role expiry
	ticker := time.NewTicker(shared.TickInterval)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				b.renderTickEvents(discord, b.Tournament.Tick(now))
			}
		}
	}()

	// keep bot running until there is NO os interruption (ctrl + C)
	b.Log.Info("TeamReg Bot started")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	return nil
}

// newMessage delegates to the testable newMessageHandler
// *discordgo.Session implements DiscordSession interface
func (b *Bot) newMessage(discord *discordgo.Session, message *discordgo.MessageCreate) {
	b.newMessageHandler(discord, message, discord.State.User.ID)
}
