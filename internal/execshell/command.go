package execshell

import "context"

const (
	gitToolNameConstant  = "git"
	mailToolNameConstant = "mail"
)

// CommandName identifies the executable invoked by a shell command.
type CommandName string

// Supported executable enumerations.
const (
	CommandGit  CommandName = CommandName(gitToolNameConstant)
	CommandMail CommandName = CommandName(mailToolNameConstant)
)

// CommandDetails describes the arguments and execution context of a command.
type CommandDetails struct {
	Arguments            []string
	WorkingDirectory     string
	EnvironmentVariables map[string]string
	StandardInput        []byte
}

// ShellCommand combines a CommandName with specific execution details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable results of executing a command.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CommandRunner represents the ability to run shell commands.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}
