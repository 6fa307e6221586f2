package commands

import (
	tele "gopkg.in/telebot.v4"
)

// Command represents a bot command with its handler, description, and metadata.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}

const (
	// Start is the command that opens the main menu.
	Start = "/start"
	// Stats is the admin command reporting catalog and session counts.
	Stats = "/stats"
)
