package execshell

import "go.uber.org/zap"

const (
	commandStartedLogMessageConstant         = "external command starting"
	commandCompletedLogMessageConstant       = "external command completed"
	commandFailedLogMessageConstant          = "external command failed"
	commandExecutionFailedLogMessageConstant = "external command could not be executed"
	logFieldCommandConstant                  = "command"
	logFieldArgumentsConstant                = "arguments"
	logFieldWorkingDirectoryConstant         = "working_directory"
	logFieldExitCodeConstant                 = "exit_code"
	logFieldStandardErrorConstant            = "standard_error"
)

// LoggingCommandEventObserver records command lifecycle events as structured zap entries.
type LoggingCommandEventObserver struct {
	logger *zap.Logger
}

// NewLoggingCommandEventObserver constructs an observer backed by the provided zap logger.
func NewLoggingCommandEventObserver(logger *zap.Logger) *LoggingCommandEventObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoggingCommandEventObserver{logger: logger}
}

// CommandStarted implements CommandEventObserver by logging command start notifications.
func (eventObserver *LoggingCommandEventObserver) CommandStarted(command ShellCommand) {
	eventObserver.logger.Debug(
		commandStartedLogMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.String(logFieldWorkingDirectoryConstant, command.Details.WorkingDirectory),
	)
}

// CommandCompleted implements CommandEventObserver by logging command completion notifications.
func (eventObserver *LoggingCommandEventObserver) CommandCompleted(command ShellCommand, result ExecutionResult) {
	if result.ExitCode == 0 {
		eventObserver.logger.Debug(
			commandCompletedLogMessageConstant,
			zap.String(logFieldCommandConstant, string(command.Name)),
			zap.Int(logFieldExitCodeConstant, result.ExitCode),
		)
		return
	}

	eventObserver.logger.Warn(
		commandFailedLogMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.Int(logFieldExitCodeConstant, result.ExitCode),
		zap.String(logFieldStandardErrorConstant, result.StandardError),
	)
}

// CommandExecutionFailed implements CommandEventObserver by logging unexpected execution failures.
func (eventObserver *LoggingCommandEventObserver) CommandExecutionFailed(command ShellCommand, failure error) {
	eventObserver.logger.Error(
		commandExecutionFailedLogMessageConstant,
		zap.String(logFieldCommandConstant, string(command.Name)),
		zap.Strings(logFieldArgumentsConstant, command.Details.Arguments),
		zap.Error(failure),
	)
}
