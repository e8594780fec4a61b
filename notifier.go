package main

import (
	"log"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// SummaryNotifier pushes the end-of-run summary to the configured admin
// chats. Without a bot token it is a no-op, send failures only log.
type SummaryNotifier struct {
	bot     *tgbotapi.BotAPI
	chatIDs []int64
}

func NewSummaryNotifier(apiKey string, chatIDsList string) (*SummaryNotifier, error) {
	notifier := &SummaryNotifier{}

	if apiKey == "" {
		return notifier, nil
	}

	bot, err := tgbotapi.NewBotAPI(apiKey)
	if err != nil {
		return nil, err
	}
	notifier.bot = bot

	for _, id := range strings.Split(chatIDsList, ",") {
		chatID, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err == nil {
			notifier.chatIDs = append(notifier.chatIDs, chatID)
		}
	}

	return notifier, nil
}

func (n *SummaryNotifier) NotifySummary(summary *ProcessingSummary) {
	if n.bot == nil || len(n.chatIDs) == 0 {
		return
	}

	for _, chatID := range n.chatIDs {
		msg := tgbotapi.NewMessage(chatID, summary.String())
		if _, err := n.bot.Send(msg); err != nil {
			log.Printf("Failed to send summary to chat %d: %v", chatID, err)
		}
	}
}
