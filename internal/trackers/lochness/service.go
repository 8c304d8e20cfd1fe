package lochness

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/notify"
)

const (
	loggerRequiredMessageConstant     = "lochness service requires a logger"
	readerRequiredMessageConstant     = "lochness service requires a completion reader"
	dispatcherRequiredMessageConstant = "lochness service requires an alert dispatcher"
	networkRequiredMessageConstant    = "lochness check requires a network name"
	thresholdRequiredMessageConstant  = "lochness check requires a positive threshold"
	noCompletionErrorTemplateConstant = "no sync completion recorded for network %s"
	alertSubjectTemplateConstant      = "%s - Lochness Sync is overdue"
	alertBodyTemplateConstant         = "Lochness at %s was last seen at %s.\n\nThis is an automated message, that checks if Lochness is running every %d hours.\n"
	lastSeenTimestampLayoutConstant   = "2006-01-02 15:04:05"
	withinThresholdMessageConstant    = "within threshold, not sending alert"
	overdueMessageConstant            = "lochness sync overdue, dispatching alert"
	logFieldNetworkConstant           = "network"
	logFieldLastSeenConstant          = "last_seen"
	logFieldThresholdHoursConstant    = "threshold_hours"
)

// Configuration describes a lochness freshness check.
type Configuration struct {
	Network        string
	ThresholdHours int
}

// CheckOutcome reports the evaluation of a freshness check.
type CheckOutcome struct {
	LastSeen        time.Time
	WithinThreshold bool
	AlertSent       bool
}

// CompletionReader reads sync completion timestamps from the status board.
type CompletionReader interface {
	LastSyncCompletion(executionContext context.Context, network string) (time.Time, bool, error)
}

// AlertDispatcher delivers overdue alerts.
type AlertDispatcher interface {
	Dispatch(executionContext context.Context, alert notify.Alert) error
}

// Service evaluates sync freshness against a configured threshold.
type Service struct {
	logger           *zap.Logger
	completionReader CompletionReader
	alertDispatcher  AlertDispatcher
	clock            func() time.Time
}

// NewService constructs a lochness freshness service.
func NewService(logger *zap.Logger, completionReader CompletionReader, alertDispatcher AlertDispatcher) (*Service, error) {
	if logger == nil {
		return nil, errors.New(loggerRequiredMessageConstant)
	}
	if completionReader == nil {
		return nil, errors.New(readerRequiredMessageConstant)
	}
	if alertDispatcher == nil {
		return nil, errors.New(dispatcherRequiredMessageConstant)
	}

	return &Service{
		logger:           logger,
		completionReader: completionReader,
		alertDispatcher:  alertDispatcher,
		clock:            time.Now,
	}, nil
}

// CheckNetwork evaluates the network's last sync completion and alerts when it is overdue.
func (service *Service) CheckNetwork(executionContext context.Context, configuration Configuration) (CheckOutcome, error) {
	trimmedNetwork := strings.TrimSpace(configuration.Network)
	if len(trimmedNetwork) == 0 {
		return CheckOutcome{}, errors.New(networkRequiredMessageConstant)
	}
	if configuration.ThresholdHours <= 0 {
		return CheckOutcome{}, errors.New(thresholdRequiredMessageConstant)
	}

	lastSeen, completionRecorded, readError := service.completionReader.LastSyncCompletion(executionContext, trimmedNetwork)
	if readError != nil {
		return CheckOutcome{}, readError
	}
	if !completionRecorded {
		return CheckOutcome{}, fmt.Errorf(noCompletionErrorTemplateConstant, trimmedNetwork)
	}

	elapsedSinceLastSeen := service.clock().Sub(lastSeen)
	withinThreshold := elapsedSinceLastSeen < time.Duration(configuration.ThresholdHours)*time.Hour

	if withinThreshold {
		service.logger.Info(
			withinThresholdMessageConstant,
			zap.String(logFieldNetworkConstant, trimmedNetwork),
			zap.Time(logFieldLastSeenConstant, lastSeen),
		)
		return CheckOutcome{LastSeen: lastSeen, WithinThreshold: true}, nil
	}

	service.logger.Warn(
		overdueMessageConstant,
		zap.String(logFieldNetworkConstant, trimmedNetwork),
		zap.Time(logFieldLastSeenConstant, lastSeen),
		zap.Int(logFieldThresholdHoursConstant, configuration.ThresholdHours),
	)

	overdueAlert := notify.Alert{
		Subject: fmt.Sprintf(alertSubjectTemplateConstant, trimmedNetwork),
		Body:    fmt.Sprintf(alertBodyTemplateConstant, trimmedNetwork, lastSeen.Format(lastSeenTimestampLayoutConstant), configuration.ThresholdHours),
	}
	if dispatchError := service.alertDispatcher.Dispatch(executionContext, overdueAlert); dispatchError != nil {
		return CheckOutcome{LastSeen: lastSeen}, dispatchError
	}

	return CheckOutcome{LastSeen: lastSeen, AlertSent: true}, nil
}
