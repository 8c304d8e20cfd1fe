// Package tracklogs assembles the track-logs command that records per-site
// pipeline log statuses on the status board.
package tracklogs

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/statusboard"
	"github.com/avpipeline/tracker/internal/trackers/logs"
	"github.com/avpipeline/tracker/internal/utils"
)

const (
	commandUseConstant                   = "track-logs"
	commandShortDescriptionConstant      = "Record pipeline log statuses for every site of the configured network"
	commandLongDescriptionConstant       = "track-logs scans the configured log source directories per task and site, classifies the most recent log of each subtask, and records the results on the status board."
	networkFlagNameConstant              = "network"
	networkFlagDescriptionConstant       = "Network whose logs are tracked"
	statusboardOpenErrorTemplateConstant = "unable to open status board: %w"
	serviceConstructionErrorTemplate     = "unable to construct log tracking service: %w"
	trackingCompletedMessageConstant     = "log tracking completed"
	logFieldNetworkConstant              = "network"
	logFieldSitesTrackedConstant         = "sites_tracked"
	logFieldResultsRecordedConstant      = "results_recorded"
	trackingSummaryTemplateConstant      = "tracked %s: %d sites, %d results recorded\n"
)

// LoggerProvider supplies the logger configured by the root command.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the track-logs command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	LogSourcesProvider    func() map[string]string
	DatabasePathProvider  func() string
	ResultRecorder        logs.ResultRecorder
}

// Build constructs the track-logs command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(networkFlagNameConstant, "", networkFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	commandConfiguration := builder.resolveConfiguration()
	if command.Flags().Changed(networkFlagNameConstant) {
		commandConfiguration.Network, _ = command.Flags().GetString(networkFlagNameConstant)
	}
	commandConfiguration = commandConfiguration.Sanitize()

	logger := builder.resolveLogger()

	resultRecorder := builder.ResultRecorder
	if resultRecorder == nil {
		statusStore, openError := statusboard.OpenStore(builder.resolveDatabasePath())
		if openError != nil {
			return fmt.Errorf(statusboardOpenErrorTemplateConstant, openError)
		}
		defer func() { _ = statusStore.Close() }()
		resultRecorder = statusStore
	}

	trackingService, serviceError := logs.NewService(logger, resultRecorder)
	if serviceError != nil {
		return fmt.Errorf(serviceConstructionErrorTemplate, serviceError)
	}

	trackingSummary, trackingError := trackingService.TrackNetwork(command.Context(), logs.Configuration{
		Network:    commandConfiguration.Network,
		Tasks:      commandConfiguration.Tasks,
		LogSources: builder.resolveLogSources(),
	})
	if trackingError != nil {
		return trackingError
	}

	logger.Info(
		trackingCompletedMessageConstant,
		zap.String(logFieldNetworkConstant, commandConfiguration.Network),
		zap.Int(logFieldSitesTrackedConstant, trackingSummary.SitesTracked),
		zap.Int(logFieldResultsRecordedConstant, trackingSummary.ResultsRecorded),
	)

	summaryWriter := utils.NewFlushingWriter(command.OutOrStdout())
	fmt.Fprintf(summaryWriter, trackingSummaryTemplateConstant, commandConfiguration.Network, trackingSummary.SitesTracked, trackingSummary.ResultsRecorded)

	return nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogSources() map[string]string {
	if builder.LogSourcesProvider == nil {
		return nil
	}
	return builder.LogSourcesProvider()
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
