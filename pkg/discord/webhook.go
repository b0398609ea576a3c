// Package discord provides a thin Discord webhook client used for log fan-out,
// error reports and the settings audit trail.
package discord

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// Footer is stamped on every embed sent by the service
const Footer = "💫 Developed by PancyStudio | GeoGate Go"

var ErrInvalidWebhookURL = errors.New("invalid discord webhook url")

// Sender delivers embeds to a Discord channel
type Sender interface {
	Send(embed *discordgo.MessageEmbed) error
}

// WebhookClient executes a single Discord webhook
type WebhookClient struct {
	session  *discordgo.Session
	id       string
	token    string
	username string
}

// NewWebhookClient parses a webhook URL of the form
// https://discord.com/api/webhooks/{id}/{token}.
// An empty URL yields a nil client, which silently drops every embed.
func NewWebhookClient(rawURL, username string) (*WebhookClient, error) {
	if rawURL == "" {
		return nil, nil
	}

	id, token, err := ParseWebhookURL(rawURL)
	if err != nil {
		return nil, err
	}

	// Webhook execution needs no bot token
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Client.Timeout = 5 * time.Second

	return &WebhookClient{
		session:  session,
		id:       id,
		token:    token,
		username: username,
	}, nil
}

// ParseWebhookURL extracts the webhook id and token from a webhook URL
func ParseWebhookURL(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "", "", ErrInvalidWebhookURL
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", ErrInvalidWebhookURL
}

// Send posts the embed through the webhook
func (c *WebhookClient) Send(embed *discordgo.MessageEmbed) error {
	if c == nil || embed == nil {
		return nil
	}

	if embed.Timestamp == "" {
		embed.Timestamp = time.Now().Format(time.RFC3339)
	}
	if embed.Footer == nil {
		embed.Footer = &discordgo.MessageEmbedFooter{Text: Footer}
	}

	_, err := c.session.WebhookExecute(c.id, c.token, false, &discordgo.WebhookParams{
		Username: c.username,
		Embeds:   []*discordgo.MessageEmbed{embed},
	})
	return err
}
