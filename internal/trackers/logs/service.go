package logs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avpipeline/tracker/internal/logparse"
	"github.com/avpipeline/tracker/internal/statusboard"
)

const (
	taskDailyJournalNameConstant         = "daily_journal"
	taskOffsiteNameConstant              = "offsite"
	subtaskAudioProcessNameConstant      = "audio_process"
	subtaskTranscriptProcessNameConstant = "transcript_process"
	subtaskVideoProcessNameConstant      = "video_process"
	totalDirectoryNameConstant           = "TOTAL"
	siteIdentifierLengthConstant         = 2
	logSourceKeyTemplateConstant         = "%s_%s_logs"
	logFilePatternTemplateConstant       = "%s_*.txt"
	loggerRequiredMessageConstant        = "log tracking service requires a logger"
	recorderRequiredMessageConstant      = "log tracking service requires a result recorder"
	networkRequiredMessageConstant       = "log tracking requires a network name"
	unknownTaskErrorTemplateConstant     = "unknown tracking task: %s"
	missingSourceErrorTemplateConstant   = "log source %s not configured"
	missingLogsErrorTemplateConstant     = "no %s logs found for site %s"
	sourceListingErrorTemplateConstant   = "failed to list log source %s: %w"
	trackingNetworkMessageConstant       = "tracking logs for network"
	trackingSiteMessageConstant          = "tracking site logs"
	logFieldNetworkConstant              = "network"
	logFieldTaskConstant                 = "task"
	logFieldSiteConstant                 = "site"
	logFieldSourceConstant               = "source"
)

var taskSubtaskMapping = map[string][]string{
	taskDailyJournalNameConstant: {subtaskAudioProcessNameConstant, subtaskTranscriptProcessNameConstant},
	taskOffsiteNameConstant:      {subtaskAudioProcessNameConstant, subtaskTranscriptProcessNameConstant, subtaskVideoProcessNameConstant},
}

// DefaultTasks lists the tracking tasks executed when configuration does not override them.
func DefaultTasks() []string {
	return []string{taskDailyJournalNameConstant, taskOffsiteNameConstant}
}

// Configuration describes a network tracking request.
type Configuration struct {
	Network    string
	Tasks      []string
	LogSources map[string]string
}

// TrackingSummary reports the volume of tracked results.
type TrackingSummary struct {
	SitesTracked    int
	ResultsRecorded int
}

// ResultRecorder persists tracked outcomes.
type ResultRecorder interface {
	RecordTaskResult(executionContext context.Context, taskResult statusboard.TaskResult) (string, error)
	RecordSyncCompletion(executionContext context.Context, network string, completedAt time.Time) error
}

// Service walks network log directories and records task outcomes.
type Service struct {
	logger         *zap.Logger
	resultRecorder ResultRecorder
}

// NewService constructs a log tracking service.
func NewService(logger *zap.Logger, resultRecorder ResultRecorder) (*Service, error) {
	if logger == nil {
		return nil, errors.New(loggerRequiredMessageConstant)
	}
	if resultRecorder == nil {
		return nil, errors.New(recorderRequiredMessageConstant)
	}
	return &Service{logger: logger, resultRecorder: resultRecorder}, nil
}

// TrackNetwork tracks every configured task for the network and records a sync completion.
func (service *Service) TrackNetwork(executionContext context.Context, configuration Configuration) (TrackingSummary, error) {
	trimmedNetwork := strings.TrimSpace(configuration.Network)
	if len(trimmedNetwork) == 0 {
		return TrackingSummary{}, errors.New(networkRequiredMessageConstant)
	}

	trackingTasks := configuration.Tasks
	if len(trackingTasks) == 0 {
		trackingTasks = DefaultTasks()
	}

	summary := TrackingSummary{}
	for _, trackingTask := range trackingTasks {
		service.logger.Info(
			trackingNetworkMessageConstant,
			zap.String(logFieldNetworkConstant, trimmedNetwork),
			zap.String(logFieldTaskConstant, trackingTask),
		)

		taskSummary, taskError := service.trackTask(executionContext, trimmedNetwork, trackingTask, configuration.LogSources)
		if taskError != nil {
			return summary, taskError
		}

		summary.SitesTracked += taskSummary.SitesTracked
		summary.ResultsRecorded += taskSummary.ResultsRecorded
	}

	if completionError := service.resultRecorder.RecordSyncCompletion(executionContext, trimmedNetwork, time.Now()); completionError != nil {
		return summary, completionError
	}

	return summary, nil
}

func (service *Service) trackTask(executionContext context.Context, network string, task string, logSources map[string]string) (TrackingSummary, error) {
	subtasks, taskKnown := taskSubtaskMapping[task]
	if !taskKnown {
		return TrackingSummary{}, fmt.Errorf(unknownTaskErrorTemplateConstant, task)
	}

	sourceKey := fmt.Sprintf(logSourceKeyTemplateConstant, strings.ToLower(network), task)
	sourceDirectory, sourceConfigured := logSources[sourceKey]
	if !sourceConfigured {
		return TrackingSummary{}, fmt.Errorf(missingSourceErrorTemplateConstant, sourceKey)
	}

	directoryEntries, listingError := os.ReadDir(sourceDirectory)
	if listingError != nil {
		return TrackingSummary{}, fmt.Errorf(sourceListingErrorTemplateConstant, sourceDirectory, listingError)
	}

	summary := TrackingSummary{}
	for _, directoryEntry := range directoryEntries {
		if !directoryEntry.IsDir() || directoryEntry.Name() == totalDirectoryNameConstant {
			continue
		}

		siteDirectory := filepath.Join(sourceDirectory, directoryEntry.Name())
		recordedResults, siteError := service.trackSite(executionContext, network, task, subtasks, siteDirectory)
		if siteError != nil {
			return summary, siteError
		}

		summary.SitesTracked++
		summary.ResultsRecorded += recordedResults
	}

	return summary, nil
}

func (service *Service) trackSite(executionContext context.Context, network string, task string, subtasks []string, siteDirectory string) (int, error) {
	siteName := filepath.Base(siteDirectory)
	siteIdentifier := siteName
	if len(siteName) > siteIdentifierLengthConstant {
		siteIdentifier = siteName[len(siteName)-siteIdentifierLengthConstant:]
	}

	service.logger.Info(
		trackingSiteMessageConstant,
		zap.String(logFieldTaskConstant, task),
		zap.String(logFieldSiteConstant, siteName),
		zap.String(logFieldSourceConstant, siteDirectory),
	)

	recordedResults := 0
	for _, subtask := range subtasks {
		logCandidates, globError := filepath.Glob(filepath.Join(siteDirectory, fmt.Sprintf(logFilePatternTemplateConstant, subtask)))
		if globError != nil {
			return recordedResults, globError
		}
		if len(logCandidates) == 0 {
			return recordedResults, fmt.Errorf(missingLogsErrorTemplateConstant, subtask, siteName)
		}

		recentLogFile, selectionError := logparse.MostRecentFile(logCandidates)
		if selectionError != nil {
			return recordedResults, selectionError
		}

		taskResult, parseError := service.buildTaskResult(network, task, subtask, siteIdentifier, recentLogFile)
		if parseError != nil {
			return recordedResults, parseError
		}

		if _, recordError := service.resultRecorder.RecordTaskResult(executionContext, taskResult); recordError != nil {
			return recordedResults, recordError
		}
		recordedResults++
	}

	return recordedResults, nil
}

func (service *Service) buildTaskResult(network string, task string, subtask string, siteIdentifier string, logFilePath string) (statusboard.TaskResult, error) {
	logRuntime, runtimeError := logparse.ExtractRuntime(logFilePath)
	if runtimeError != nil {
		return statusboard.TaskResult{}, runtimeError
	}

	lastRun, timestampError := logparse.TimestampFromFilename(logFilePath)
	if timestampError != nil {
		return statusboard.TaskResult{}, timestampError
	}

	logStatus, classificationError := logparse.ClassifyLog(logFilePath)
	if classificationError != nil {
		return statusboard.TaskResult{}, classificationError
	}

	logExcerpt, excerptError := logparse.TailExcerpt(logFilePath)
	if excerptError != nil {
		return statusboard.TaskResult{}, excerptError
	}

	return statusboard.TaskResult{
		Network:        network,
		Task:           task,
		Subtask:        subtask,
		SiteIdentifier: siteIdentifier,
		Status:         string(logStatus),
		LastRun:        lastRun,
		Runtime:        logRuntime,
		LogExcerpt:     logExcerpt,
	}, nil
}
