package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"paybot/internal/cache"
	applog "paybot/internal/log"
	"paybot/internal/services"
)

// Bot wires the Discord gateway to the payment service. All state lives
// in the service and the wizard store; handlers are safe to call from
// discordgo's event goroutines.
type Bot struct {
	session *discordgo.Session
	svc     *services.PaymentService
	wizards *WizardStore
	matches *cache.LRUCache[[]*discordgo.ApplicationCommandOptionChoice]
	guildID string
	logger  *applog.Logger
}

func New(token, guildID string, svc *services.PaymentService, logger *applog.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	b := &Bot{
		session: session,
		svc:     svc,
		wizards: NewWizardStore(),
		matches: cache.NewLRUCache[[]*discordgo.ApplicationCommandOptionChoice](128, 30*time.Second),
		guildID: guildID,
		logger:  logger,
	}

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		b.logger.Info("discord gateway ready", "user", r.User.Username)
	})
	session.AddHandler(b.handleInteraction)

	return b, nil
}

// Start opens the gateway connection and registers the slash commands.
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}

	appID := b.session.State.User.ID
	if _, err := b.session.ApplicationCommandBulkOverwrite(appID, b.guildID, commandDefinitions); err != nil {
		b.session.Close()
		return fmt.Errorf("registering commands: %w", err)
	}
	b.logger.Info("commands registered", "count", len(commandDefinitions), "guild", b.guildID)
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		switch data.Name {
		case "pay":
			b.handlePay(s, i)
		case "audit":
			b.handleAudit(s, i)
		case "addcreator":
			b.handleAddName(s, i, "creator")
		case "addapp":
			b.handleAddName(s, i, "app")
		case "commands":
			b.respondEphemeral(s, i, commandsHelp)
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		b.handleAutocomplete(s, i)
	case discordgo.InteractionMessageComponent:
		switch i.MessageComponentData().CustomID {
		case customIDSelectCreator:
			b.handleCreatorSelected(s, i)
		case customIDSelectApp:
			b.handleAppSelected(s, i)
		}
	case discordgo.InteractionModalSubmit:
		if i.ModalSubmitData().CustomID == customIDDetailsModal {
			b.handleDetailsSubmitted(s, i)
		}
	}
}

// submitter returns the display name of the interacting user. Guild
// interactions carry a Member, DMs carry a User.
func submitter(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.Username
	}
	if i.User != nil {
		return i.User.Username
	}
	return ""
}

func submitterID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (b *Bot) respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		b.logger.Error("responding to interaction", "error", err)
	}
}

func (b *Bot) respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		b.logger.Error("responding to interaction", "error", err)
	}
}
