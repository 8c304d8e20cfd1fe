package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	telegrambot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	telegramChannelNameConstant              = "telegram"
	telegramTokenRequiredMessageConstant     = "telegram notifier requires a bot token"
	telegramChatRequiredMessageConstant      = "telegram notifier requires a chat identifier"
	telegramBotCreationErrorTemplateConstant = "failed to create telegram bot: %w"
	telegramSendErrorTemplateConstant        = "failed to send telegram message: %w"
	telegramMessageTemplateConstant          = "%s\n\n%s"
)

// TelegramMessageSender abstracts the bot API send surface for testing.
type TelegramMessageSender interface {
	Send(chattable telegrambot.Chattable) (telegrambot.Message, error)
}

// TelegramNotifier delivers alerts to a Telegram chat.
type TelegramNotifier struct {
	messageSender  TelegramMessageSender
	chatIdentifier int64
}

// NewTelegramNotifier constructs a notifier backed by the Telegram bot API.
func NewTelegramNotifier(botToken string, chatIdentifier int64) (*TelegramNotifier, error) {
	trimmedBotToken := strings.TrimSpace(botToken)
	if len(trimmedBotToken) == 0 {
		return nil, errors.New(telegramTokenRequiredMessageConstant)
	}
	if chatIdentifier == 0 {
		return nil, errors.New(telegramChatRequiredMessageConstant)
	}

	botClient, botCreationError := telegrambot.NewBotAPI(trimmedBotToken)
	if botCreationError != nil {
		return nil, fmt.Errorf(telegramBotCreationErrorTemplateConstant, botCreationError)
	}

	return &TelegramNotifier{messageSender: botClient, chatIdentifier: chatIdentifier}, nil
}

// NewTelegramNotifierWithSender constructs a notifier around a prebuilt sender, primarily for tests.
func NewTelegramNotifierWithSender(messageSender TelegramMessageSender, chatIdentifier int64) (*TelegramNotifier, error) {
	if messageSender == nil {
		return nil, errors.New(telegramTokenRequiredMessageConstant)
	}
	if chatIdentifier == 0 {
		return nil, errors.New(telegramChatRequiredMessageConstant)
	}
	return &TelegramNotifier{messageSender: messageSender, chatIdentifier: chatIdentifier}, nil
}

// Name identifies the telegram channel.
func (notifier *TelegramNotifier) Name() string {
	return telegramChannelNameConstant
}

// Deliver sends the alert to the configured chat.
func (notifier *TelegramNotifier) Deliver(executionContext context.Context, alert Alert) error {
	messageText := fmt.Sprintf(telegramMessageTemplateConstant, alert.Subject, alert.Body)
	chatMessage := telegrambot.NewMessage(notifier.chatIdentifier, messageText)

	if _, sendError := notifier.messageSender.Send(chatMessage); sendError != nil {
		return fmt.Errorf(telegramSendErrorTemplateConstant, sendError)
	}

	return nil
}
