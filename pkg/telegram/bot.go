package telegram

import (
	"fmt"
	"net/http"
	"net/url"
)

type Bot struct {
	token            string
	baseURL          string
	moderationChatID string
}

func NewBot(token, moderationChatID string) *Bot {
	return &Bot{
		token:            token,
		baseURL:          "https://api.telegram.org/bot" + token,
		moderationChatID: moderationChatID,
	}
}

func (b *Bot) SendMessage(chatID, text string) error {
	endpoint := b.baseURL + "/sendMessage"

	params := url.Values{}
	params.Add("chat_id", chatID)
	params.Add("text", text)

	resp, err := http.PostForm(endpoint, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error: %s", resp.Status)
	}

	return nil
}

// SendToModerationChannel posts to the admins' shared channel. Used for host
// requests and other moderation-queue events.
func (b *Bot) SendToModerationChannel(text string) error {
	if b.moderationChatID == "" {
		return nil
	}
	return b.SendMessage(b.moderationChatID, text)
}
