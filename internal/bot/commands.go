package bot

import "github.com/bwmarrin/discordgo"

// Component and modal custom IDs for the submission wizard.
const (
	customIDSelectCreator = "pay:creator"
	customIDSelectApp     = "pay:app"
	customIDDetailsModal  = "pay:details"

	fieldCreator     = "creator"
	fieldAmount      = "amount"
	fieldPaymentInfo = "payment_info"
	fieldNote        = "note"

	// Sentinel select value for a creator not yet in the registry.
	valueNewCreator = "__new__"
)

var commandDefinitions = []*discordgo.ApplicationCommand{
	{
		Name:        "pay",
		Description: "Submit a payment through the guided form",
	},
	{
		Name:        "audit",
		Description: "Report payments for a user, app and month",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "username",
				Description:  "Submitter to match, or 'all'",
				Required:     true,
				Autocomplete: true,
			},
			{
				Type:         discordgo.ApplicationCommandOptionString,
				Name:         "app",
				Description:  "App to match, or 'all'",
				Required:     true,
				Autocomplete: true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "period",
				Description: "Month to audit, e.g. 4/2025",
				Required:    true,
			},
		},
	},
	{
		Name:        "addcreator",
		Description: "Register a creator name",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "Creator name to register",
				Required:    true,
			},
		},
	},
	{
		Name:        "addapp",
		Description: "Register an app name",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "App name to register",
				Required:    true,
			},
		},
	},
	{
		Name:        "commands",
		Description: "List the bot's commands",
	},
}

const commandsHelp = "**Commands**\n" +
	"`/pay` - submit a payment through the guided form\n" +
	"`/audit username app period` - report payments for a month (use `all` as a wildcard)\n" +
	"`/addcreator name` - register a creator name\n" +
	"`/addapp name` - register an app name\n" +
	"`/commands` - show this list"
