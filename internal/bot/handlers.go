package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"paybot/internal/core"
)

const interactionTimeout = 10 * time.Second

// maxSelectOptions is Discord's limit for a single select menu.
const maxSelectOptions = 25

// handlePay starts the submission wizard with the creator select menu.
func (b *Bot) handlePay(s *discordgo.Session, i *discordgo.InteractionCreate) {
	session := b.wizards.Begin(submitterID(i))
	b.logger.Info("wizard started", "user", submitter(i), "state", session.State)

	options := []discordgo.SelectMenuOption{
		{Label: "New creator (typed on the next step)", Value: valueNewCreator},
	}
	for _, name := range b.svc.Registry().Creators() {
		if len(options) == maxSelectOptions {
			break
		}
		options = append(options, discordgo.SelectMenuOption{Label: name, Value: name})
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Who is the payment for?",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.StringSelectMenu,
						CustomID:    customIDSelectCreator,
						Placeholder: "Select a creator",
						Options:     options,
					},
				}},
			},
		},
	})
	if err != nil {
		b.logger.Error("starting wizard", "error", err)
	}
}

func (b *Bot) handleCreatorSelected(s *discordgo.Session, i *discordgo.InteractionCreate) {
	session, ok := b.wizards.Get(submitterID(i))
	if !ok {
		b.respondEphemeral(s, i, "This form has expired. Run `/pay` again.")
		return
	}

	value := i.MessageComponentData().Values[0]
	newCreator := value == valueNewCreator
	name := value
	if newCreator {
		name = ""
	}
	if err := session.SelectCreator(name, newCreator); err != nil {
		b.respondEphemeral(s, i, "This form is out of order. Run `/pay` again.")
		return
	}

	apps := b.svc.Registry().Apps()
	if len(apps) == 0 {
		b.wizards.End(submitterID(i))
		b.respondEphemeral(s, i, "No apps registered yet. Add one with `/addapp` first.")
		return
	}

	options := make([]discordgo.SelectMenuOption, 0, maxSelectOptions)
	for _, app := range apps {
		if len(options) == maxSelectOptions {
			break
		}
		options = append(options, discordgo.SelectMenuOption{Label: app, Value: app})
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content: "Which app was the payment made through?",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.StringSelectMenu,
						CustomID:    customIDSelectApp,
						Placeholder: "Select an app",
						Options:     options,
					},
				}},
			},
		},
	})
	if err != nil {
		b.logger.Error("advancing wizard to app selection", "error", err)
	}
}

func (b *Bot) handleAppSelected(s *discordgo.Session, i *discordgo.InteractionCreate) {
	session, ok := b.wizards.Get(submitterID(i))
	if !ok {
		b.respondEphemeral(s, i, "This form has expired. Run `/pay` again.")
		return
	}
	if err := session.SelectApp(i.MessageComponentData().Values[0]); err != nil {
		b.respondEphemeral(s, i, "This form is out of order. Run `/pay` again.")
		return
	}

	rows := make([]discordgo.MessageComponent, 0, 4)
	if session.NewCreator {
		rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:  fieldCreator,
				Label:     "Creator name",
				Style:     discordgo.TextInputShort,
				Required:  true,
				MaxLength: 100,
			},
		}})
	}
	rows = append(rows,
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    fieldAmount,
				Label:       "Amount",
				Style:       discordgo.TextInputShort,
				Placeholder: "150.50",
				Required:    true,
				MaxLength:   20,
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:    fieldPaymentInfo,
				Label:       "Payment info",
				Style:       discordgo.TextInputShort,
				Placeholder: "Transaction reference, last four digits, ...",
				Required:    false,
				MaxLength:   200,
			},
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.TextInput{
				CustomID:  fieldNote,
				Label:     "Note",
				Style:     discordgo.TextInputParagraph,
				Required:  false,
				MaxLength: 500,
			},
		}},
	)

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID:   customIDDetailsModal,
			Title:      "Payment details",
			Components: rows,
		},
	})
	if err != nil {
		b.logger.Error("opening details modal", "error", err)
	}
}

func (b *Bot) handleDetailsSubmitted(s *discordgo.Session, i *discordgo.InteractionCreate) {
	userID := submitterID(i)
	session, ok := b.wizards.Get(userID)
	if !ok {
		b.respondEphemeral(s, i, "This form has expired. Run `/pay` again.")
		return
	}

	fields := modalValues(i.ModalSubmitData())
	creator := session.Creator
	if session.NewCreator {
		creator = fields[fieldCreator]
	}

	now := time.Now().UTC()
	sub := core.Submission{
		CreatorName: creator,
		AppName:     session.App,
		Submitter:   submitter(i),
		Amount:      fields[fieldAmount],
		PaymentInfo: fields[fieldPaymentInfo],
		Note:        fields[fieldNote],
		Date:        core.NewDate(now.Year(), int(now.Month()), now.Day()),
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	id, err := b.svc.Submit(ctx, sub)
	if err != nil {
		b.respondEphemeral(s, i, submissionErrorMessage(err))
		return
	}
	if err := session.Complete(); err != nil {
		b.logger.Warn("wizard completed out of order", "user", submitter(i), "error", err)
	}
	b.wizards.End(userID)

	// Submit already parsed the amount; re-parse only for display.
	amount, _ := core.ParseAmount(sub.Amount)

	b.logger.Info("payment submitted", "id", id, "submitter", sub.Submitter,
		"creator", creator, "app", session.App)
	b.respond(s, i, fmt.Sprintf(
		"✅ Payment recorded.\nCreator: %s | App: %s | Amount: $%s | Date: %s",
		strings.TrimSpace(creator), session.App, core.FormatAmount(amount), sub.Date))
}

func (b *Bot) handleAudit(s *discordgo.Session, i *discordgo.InteractionCreate) {
	opts := commandOptions(i.ApplicationCommandData())

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	_, rendered, err := b.svc.Audit(ctx, opts["username"], opts["app"], opts["period"])
	if err != nil {
		if errors.Is(err, core.ErrPeriodFormat) {
			b.respondEphemeral(s, i, "Invalid period. Use month/year, e.g. `4/2025`.")
			return
		}
		b.logger.Error("audit failed", "error", err)
		b.respondEphemeral(s, i, "Audit failed. Try again later.")
		return
	}
	b.respond(s, i, rendered)
}

func (b *Bot) handleAddName(s *discordgo.Session, i *discordgo.InteractionCreate, kind string) {
	name := commandOptions(i.ApplicationCommandData())["name"]

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	var (
		created bool
		err     error
	)
	if kind == "creator" {
		created, err = b.svc.AddCreator(ctx, name)
	} else {
		created, err = b.svc.AddApp(ctx, name)
	}
	if err != nil {
		if errors.Is(err, core.ErrEmptyCreator) || errors.Is(err, core.ErrEmptyApp) {
			b.respondEphemeral(s, i, "The name cannot be empty.")
			return
		}
		b.logger.Error("registering name", "kind", kind, "name", name, "error", err)
		b.respondEphemeral(s, i, "Could not register the name. Try again later.")
		return
	}
	b.matches.Purge()

	if created {
		b.respond(s, i, fmt.Sprintf("✅ Registered %s `%s`.", kind, strings.TrimSpace(name)))
		return
	}
	b.respondEphemeral(s, i, fmt.Sprintf("`%s` is already a registered %s.", strings.TrimSpace(name), kind))
}

// handleAutocomplete serves name suggestions for /audit: registered apps
// for the app option, known creators for the username option. Match lists
// are cached per option and query for a short window; the cache is purged
// whenever the registry changes.
func (b *Bot) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	var field, query string
	for _, opt := range data.Options {
		if opt.Focused {
			field = opt.Name
			query = opt.StringValue()
		}
	}

	key := field + ":" + strings.ToLower(strings.TrimSpace(query))
	choices, ok := b.matches.Get(key)
	if !ok {
		var names []string
		wildcardLabel := "all (every app)"
		switch field {
		case "app":
			names = b.svc.Registry().SearchApps(query)
		case "username":
			names = b.svc.Registry().SearchCreators(query)
			wildcardLabel = "all (every submitter)"
		default:
			return
		}

		choices = []*discordgo.ApplicationCommandOptionChoice{
			{Name: wildcardLabel, Value: core.WildcardFilter},
		}
		for _, name := range names {
			if len(choices) == maxSelectOptions {
				break
			}
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
				Name:  name,
				Value: name,
			})
		}
		b.matches.Set(key, choices)
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		b.logger.Error("responding to autocomplete", "error", err)
	}
}

func submissionErrorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return "Invalid amount. Enter a positive number, e.g. `150.50`."
	case errors.Is(err, core.ErrUnknownApp):
		return "That app is not registered. Add it with `/addapp` first."
	case errors.Is(err, core.ErrEmptyCreator):
		return "The creator name cannot be empty."
	default:
		return "Could not record the payment. Try again later."
	}
}

func commandOptions(data discordgo.ApplicationCommandInteractionData) map[string]string {
	out := make(map[string]string, len(data.Options))
	for _, opt := range data.Options {
		out[opt.Name] = opt.StringValue()
	}
	return out
}

func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	out := make(map[string]string)
	for _, row := range data.Components {
		actions, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actions.Components {
			if input, ok := comp.(*discordgo.TextInput); ok {
				out[input.CustomID] = input.Value
			}
		}
	}
	return out
}
