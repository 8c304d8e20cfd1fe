// Package lochness assembles the track-lochness command that checks sync
// freshness for a network and raises overdue alerts.
package lochness

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/execshell"
	"github.com/avpipeline/tracker/internal/notify"
	"github.com/avpipeline/tracker/internal/statusboard"
	lochnesstracker "github.com/avpipeline/tracker/internal/trackers/lochness"
)

const (
	commandUseConstant                   = "track-lochness"
	commandShortDescriptionConstant      = "Check Lochness sync freshness for a network"
	commandLongDescriptionConstant       = "track-lochness reads the network's last sync completion from the status board and dispatches an overdue alert when it falls outside the configured threshold."
	networkFlagNameConstant              = "network"
	networkFlagDescriptionConstant       = "Network whose sync freshness is checked"
	statusboardOpenErrorTemplateConstant = "unable to open status board: %w"
	shellExecutorErrorTemplateConstant   = "unable to construct shell executor: %w"
	mailDeliveryErrorTemplateConstant    = "unable to construct mail delivery: %w"
	telegramErrorTemplateConstant        = "unable to construct telegram notifier: %w"
	serviceConstructionErrorTemplate     = "unable to construct lochness service: %w"
	checkCompletedMessageConstant        = "lochness check completed"
	logFieldNetworkConstant              = "network"
	logFieldWithinThresholdConstant      = "within_threshold"
	logFieldAlertSentConstant            = "alert_sent"
)

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the track-lochness command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	HumanReadableLoggingProvider func() bool
	DatabasePathProvider         func() string
	CompletionReader             lochnesstracker.CompletionReader
	AlertDispatcher              lochnesstracker.AlertDispatcher
}

// Build constructs the track-lochness command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(networkFlagNameConstant, "", networkFlagDescriptionConstant)
	if markError := command.MarkFlagRequired(networkFlagNameConstant); markError != nil {
		return nil, markError
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	commandConfiguration := builder.resolveConfiguration().Sanitize()
	networkName, _ := command.Flags().GetString(networkFlagNameConstant)

	logger := builder.resolveLogger()

	completionReader := builder.CompletionReader
	if completionReader == nil {
		statusStore, openError := statusboard.OpenStore(builder.resolveDatabasePath())
		if openError != nil {
			return fmt.Errorf(statusboardOpenErrorTemplateConstant, openError)
		}
		defer func() { _ = statusStore.Close() }()
		completionReader = statusStore
	}

	alertDispatcher := builder.AlertDispatcher
	if alertDispatcher == nil {
		builtDispatcher, dispatcherError := builder.buildAlertDispatcher(logger, commandConfiguration)
		if dispatcherError != nil {
			return dispatcherError
		}
		alertDispatcher = builtDispatcher
	}

	checkService, serviceError := lochnesstracker.NewService(logger, completionReader, alertDispatcher)
	if serviceError != nil {
		return fmt.Errorf(serviceConstructionErrorTemplate, serviceError)
	}

	checkOutcome, checkError := checkService.CheckNetwork(command.Context(), lochnesstracker.Configuration{
		Network:        networkName,
		ThresholdHours: commandConfiguration.EmailThresholdHours,
	})
	if checkError != nil {
		return checkError
	}

	logger.Info(
		checkCompletedMessageConstant,
		zap.String(logFieldNetworkConstant, networkName),
		zap.Bool(logFieldWithinThresholdConstant, checkOutcome.WithinThreshold),
		zap.Bool(logFieldAlertSentConstant, checkOutcome.AlertSent),
	)

	return nil
}

func (builder *CommandBuilder) buildAlertDispatcher(logger *zap.Logger, configuration CommandConfiguration) (*notify.AlertDispatcher, error) {
	alertChannels := []notify.AlertChannel{}

	if len(configuration.EmailRecipients) > 0 {
		shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner())
		if executorError != nil {
			return nil, fmt.Errorf(shellExecutorErrorTemplateConstant, executorError)
		}
		if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
			shellExecutor.SetCommandEventObserver(execshell.NewConsoleCommandEventLogger(logger))
		}

		mailDelivery, deliveryError := notify.NewMailDelivery(logger, shellExecutor, configuration.MailBinaryPath)
		if deliveryError != nil {
			return nil, fmt.Errorf(mailDeliveryErrorTemplateConstant, deliveryError)
		}
		alertChannels = append(alertChannels, notify.NewMailAlertChannel(mailDelivery, configuration.EmailSender, configuration.EmailRecipients))
	}

	if len(configuration.TelegramBotToken) > 0 && configuration.TelegramChatID != 0 {
		telegramNotifier, telegramError := notify.NewTelegramNotifier(configuration.TelegramBotToken, configuration.TelegramChatID)
		if telegramError != nil {
			return nil, fmt.Errorf(telegramErrorTemplateConstant, telegramError)
		}
		alertChannels = append(alertChannels, telegramNotifier)
	}

	return notify.NewAlertDispatcher(logger, alertChannels...), nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveDatabasePath() string {
	if builder.DatabasePathProvider == nil {
		return ""
	}
	return builder.DatabasePathProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	providedLogger := builder.LoggerProvider()
	if providedLogger == nil {
		return zap.NewNop()
	}
	return providedLogger
}
