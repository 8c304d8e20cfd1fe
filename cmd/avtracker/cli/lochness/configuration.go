package lochness

import "strings"

const (
	emailThresholdConfigurationKeyConstant = ".email_threshold_hours"
	defaultEmailThresholdHoursConstant     = 24
)

// CommandConfiguration captures lochness check settings sourced from configuration files.
type CommandConfiguration struct {
	EmailThresholdHours int      `mapstructure:"email_threshold_hours"`
	EmailSender         string   `mapstructure:"email_sender"`
	EmailRecipients     []string `mapstructure:"email_recipients"`
	MailBinaryPath      string   `mapstructure:"mail_binary_path"`
	TelegramBotToken    string   `mapstructure:"telegram_bot_token"`
	TelegramChatID      int64    `mapstructure:"telegram_chat_id"`
}

// DefaultCommandConfiguration returns baseline lochness check settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{EmailThresholdHours: defaultEmailThresholdHoursConstant}
}

// DefaultConfigurationValues exposes lochness defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + emailThresholdConfigurationKeyConstant: defaultEmailThresholdHoursConstant,
	}
}

// Sanitize trims string settings and drops empty recipients.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.EmailSender = strings.TrimSpace(configuration.EmailSender)
	sanitized.MailBinaryPath = strings.TrimSpace(configuration.MailBinaryPath)
	sanitized.TelegramBotToken = strings.TrimSpace(configuration.TelegramBotToken)

	sanitizedRecipients := make([]string, 0, len(configuration.EmailRecipients))
	for _, recipientAddress := range configuration.EmailRecipients {
		trimmedRecipient := strings.TrimSpace(recipientAddress)
		if len(trimmedRecipient) > 0 {
			sanitizedRecipients = append(sanitizedRecipients, trimmedRecipient)
		}
	}
	sanitized.EmailRecipients = sanitizedRecipients

	return sanitized
}
