package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/execshell"
)

const (
	mailChannelNameConstant               = "mail"
	defaultMailBinaryPathConstant         = "/usr/bin/mail"
	mailSubjectFlagConstant               = "-s"
	mailAttachmentFlagConstant            = "-a"
	mailExecutorRequiredMessageConstant   = "mail delivery requires a mail executor"
	mailRecipientsRequiredMessageConstant = "mail delivery requires at least one recipient"
	mailBinaryMissingMessageConstant      = "mail binary not found, skipping email delivery"
	logFieldMailBinaryConstant            = "mail_binary"
	mailHeaderFromTemplateConstant        = "From: %s\n"
	mailHeaderToTemplateConstant          = "To: %s\n"
	mailHeaderSubjectTemplateConstant     = "Subject: %s\n"
	mailSentAtTemplateConstant            = "\nSent at: %s\n"
	mailRecipientJoinSeparatorConstant    = ","
	mailTimestampLayoutConstant           = time.RFC1123
)

// MailExecutor describes the mail execution surface required for delivery.
type MailExecutor interface {
	ExecuteMail(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// EmailMessage describes an outgoing email.
type EmailMessage struct {
	Subject     string
	Body        string
	Sender      string
	Recipients  []string
	Attachments []string
}

// MailDelivery sends email through the system mail binary.
type MailDelivery struct {
	logger         *zap.Logger
	mailExecutor   MailExecutor
	mailBinaryPath string
}

// NewMailDelivery constructs a MailDelivery around the provided executor.
//
// An empty binary path selects the conventional /usr/bin/mail location.
func NewMailDelivery(logger *zap.Logger, mailExecutor MailExecutor, mailBinaryPath string) (*MailDelivery, error) {
	if mailExecutor == nil {
		return nil, errors.New(mailExecutorRequiredMessageConstant)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	trimmedBinaryPath := strings.TrimSpace(mailBinaryPath)
	if len(trimmedBinaryPath) == 0 {
		trimmedBinaryPath = defaultMailBinaryPathConstant
	}

	return &MailDelivery{logger: logger, mailExecutor: mailExecutor, mailBinaryPath: trimmedBinaryPath}, nil
}

// Send delivers the email, skipping silently (with a warning) when the mail binary is unavailable.
func (delivery *MailDelivery) Send(executionContext context.Context, message EmailMessage) error {
	if len(message.Recipients) == 0 {
		return errors.New(mailRecipientsRequiredMessageConstant)
	}

	if _, statError := os.Stat(delivery.mailBinaryPath); statError != nil {
		delivery.logger.Warn(
			mailBinaryMissingMessageConstant,
			zap.String(logFieldMailBinaryConstant, delivery.mailBinaryPath),
		)
		return nil
	}

	commandArguments := []string{mailSubjectFlagConstant, message.Subject}
	for _, attachmentPath := range message.Attachments {
		commandArguments = append(commandArguments, mailAttachmentFlagConstant, attachmentPath)
	}
	commandArguments = append(commandArguments, message.Recipients...)

	commandDetails := execshell.CommandDetails{
		Arguments:     commandArguments,
		StandardInput: []byte(delivery.composeMessageBody(message)),
	}

	_, executionError := delivery.mailExecutor.ExecuteMail(executionContext, commandDetails)
	return executionError
}

func (delivery *MailDelivery) composeMessageBody(message EmailMessage) string {
	bodyBuilder := strings.Builder{}
	bodyBuilder.WriteString(fmt.Sprintf(mailHeaderFromTemplateConstant, message.Sender))
	bodyBuilder.WriteString(fmt.Sprintf(mailHeaderToTemplateConstant, strings.Join(message.Recipients, mailRecipientJoinSeparatorConstant)))
	bodyBuilder.WriteString(fmt.Sprintf(mailHeaderSubjectTemplateConstant, message.Subject))
	bodyBuilder.WriteString("\n")
	bodyBuilder.WriteString(message.Body)
	bodyBuilder.WriteString(fmt.Sprintf(mailSentAtTemplateConstant, time.Now().Format(mailTimestampLayoutConstant)))
	return bodyBuilder.String()
}

// MailAlertChannel adapts MailDelivery to the AlertChannel interface.
type MailAlertChannel struct {
	delivery   *MailDelivery
	sender     string
	recipients []string
}

// NewMailAlertChannel constructs an alert channel that emails the configured recipients.
func NewMailAlertChannel(delivery *MailDelivery, sender string, recipients []string) *MailAlertChannel {
	return &MailAlertChannel{delivery: delivery, sender: sender, recipients: recipients}
}

// Name identifies the mail channel.
func (channel *MailAlertChannel) Name() string {
	return mailChannelNameConstant
}

// Deliver sends the alert as an email message.
func (channel *MailAlertChannel) Deliver(executionContext context.Context, alert Alert) error {
	return channel.delivery.Send(executionContext, EmailMessage{
		Subject:    alert.Subject,
		Body:       alert.Body,
		Sender:     channel.sender,
		Recipients: channel.recipients,
	})
}
