package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zionge2k/news-alert-system/internal/apperr"
)

// descriptionLimit truncates an embed description the way the original
// formatter does, to stay well under Discord's 4096-char embed cap while
// keeping messages scannable in a channel.
const descriptionLimit = 200

const defaultEmbedColor = 0x5865F2 // Discord's own blurple, used when no category color is mapped

// categoryColors gives a handful of recognizable accent colors per
// category; anything unmapped falls back to defaultEmbedColor.
var categoryColors = map[string]int{
	"breaking":  0xED4245,
	"tech":      0x57F287,
	"business":  0xFEE75C,
	"world":     0x5865F2,
}

// discordWebhookPayload mirrors the subset of Discord's webhook execute
// body (https://discord.com/developers/docs/resources/webhook) the embed
// formatter needs.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string             `json:"title"`
	URL         string             `json:"url,omitempty"`
	Description string             `json:"description,omitempty"`
	Color       int                `json:"color"`
	Timestamp   string             `json:"timestamp,omitempty"`
	Image       *discordEmbedImage `json:"image,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedImage struct {
	URL string `json:"url"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// DiscordChatTarget sends one Message per webhook call. It holds no
// connection state — each Send is a single self-contained POST, the same
// shape as the teacher's outbound publisher clients.
type DiscordChatTarget struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordChatTarget(webhookURL string, timeout time.Duration) *DiscordChatTarget {
	return &DiscordChatTarget{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// Send implements ChatTarget. Discord's webhook endpoint returns 429 on
// rate limiting and 5xx on its own outages, both transient; 400/401/404
// mean the request or webhook itself is broken and will never succeed on
// retry, so those are classified permanent.
func (d *DiscordChatTarget) Send(ctx context.Context, msg Message) error {
	body, err := json.Marshal(buildEmbedPayload(msg))
	if err != nil {
		return apperr.Permanent("DiscordChatTarget.Send", fmt.Errorf("marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return apperr.Permanent("DiscordChatTarget.Send", fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return apperr.Transient("DiscordChatTarget.Send", fmt.Errorf("webhook request failed: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	respBody, _ := io.ReadAll(resp.Body)
	err = fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(respBody))

	switch {
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		return apperr.Transient("DiscordChatTarget.Send", err)
	default:
		return apperr.Permanent("DiscordChatTarget.Send", err)
	}
}

func buildEmbedPayload(msg Message) discordWebhookPayload {
	embed := discordEmbed{
		Title:       msg.Title,
		URL:         msg.URL,
		Description: truncate(msg.Content, descriptionLimit),
		Color:       colorFor(msg.Category),
	}

	if msg.ImageURL != "" {
		embed.Image = &discordEmbedImage{URL: msg.ImageURL}
	}

	if msg.Platform != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Platform", Value: msg.Platform, Inline: true})
	}
	if msg.Category != "" {
		embed.Fields = append(embed.Fields, discordEmbedField{Name: "Category", Value: msg.Category, Inline: true})
	}

	if msg.PublishedAt != nil {
		embed.Timestamp = msg.PublishedAt.UTC().Format(time.RFC3339)
	}

	return discordWebhookPayload{Embeds: []discordEmbed{embed}}
}

func colorFor(category string) int {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultEmbedColor
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
