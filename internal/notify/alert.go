package notify

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

const (
	alertDeliveryFailedMessageConstant = "alert delivery failed"
	alertDeliveredMessageConstant      = "alert delivered"
	logFieldChannelConstant            = "channel"
	logFieldSubjectConstant            = "subject"
)

// Alert carries the subject and body of a notification.
type Alert struct {
	Subject string
	Body    string
}

// AlertChannel delivers alerts through a specific transport.
type AlertChannel interface {
	Name() string
	Deliver(executionContext context.Context, alert Alert) error
}

// AlertDispatcher fans alerts out to every configured channel sequentially.
type AlertDispatcher struct {
	logger   *zap.Logger
	channels []AlertChannel
}

// NewAlertDispatcher constructs a dispatcher over the provided channels.
func NewAlertDispatcher(logger *zap.Logger, channels ...AlertChannel) *AlertDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertDispatcher{logger: logger, channels: channels}
}

// Dispatch delivers the alert through each channel, collecting every failure.
func (dispatcher *AlertDispatcher) Dispatch(executionContext context.Context, alert Alert) error {
	deliveryErrors := []error{}

	for _, channel := range dispatcher.channels {
		if channel == nil {
			continue
		}

		deliveryError := channel.Deliver(executionContext, alert)
		if deliveryError != nil {
			dispatcher.logger.Error(
				alertDeliveryFailedMessageConstant,
				zap.String(logFieldChannelConstant, channel.Name()),
				zap.String(logFieldSubjectConstant, alert.Subject),
				zap.Error(deliveryError),
			)
			deliveryErrors = append(deliveryErrors, deliveryError)
			continue
		}

		dispatcher.logger.Info(
			alertDeliveredMessageConstant,
			zap.String(logFieldChannelConstant, channel.Name()),
			zap.String(logFieldSubjectConstant, alert.Subject),
		)
	}

	return errors.Join(deliveryErrors...)
}
