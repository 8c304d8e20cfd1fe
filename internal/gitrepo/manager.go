package gitrepo

import (
	"context"
	"errors"
	"strings"

	"github.com/avpipeline/tracker/internal/execshell"
)

const (
	gitExecutorRequiredMessageConstant        = "repository manager requires a git executor"
	directoryPathRequiredMessageConstant      = "directory path must be provided"
	gitConfigSubcommandNameConstant           = "config"
	gitGlobalFlagConstant                     = "--global"
	gitGetAllFlagConstant                     = "--get-all"
	gitAddFlagConstant                        = "--add"
	gitSafeDirectoryConfigurationKeyConstant  = "safe.directory"
	trustedDirectoryListSeparatorConstant     = "\n"
	missingConfigurationEntryExitCodeConstant = 1
)

// GitExecutor describes the git execution surface required by the manager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager performs structured git configuration operations.
type RepositoryManager struct {
	gitExecutor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around the provided executor.
func NewRepositoryManager(gitExecutor GitExecutor) (*RepositoryManager, error) {
	if gitExecutor == nil {
		return nil, errors.New(gitExecutorRequiredMessageConstant)
	}
	return &RepositoryManager{gitExecutor: gitExecutor}, nil
}

// EnsureTrustedDirectory registers the directory as a git safe.directory entry when absent.
//
// The registration is idempotent: re-running against an already registered
// directory performs no additional configuration writes. The returned boolean
// reports whether a new entry was added.
func (manager *RepositoryManager) EnsureTrustedDirectory(executionContext context.Context, directoryPath string) (bool, error) {
	trimmedDirectoryPath := strings.TrimSpace(directoryPath)
	if len(trimmedDirectoryPath) == 0 {
		return false, errors.New(directoryPathRequiredMessageConstant)
	}

	registeredDirectories, lookupError := manager.listTrustedDirectories(executionContext)
	if lookupError != nil {
		return false, lookupError
	}

	for _, registeredDirectory := range registeredDirectories {
		if registeredDirectory == trimmedDirectoryPath {
			return false, nil
		}
	}

	additionDetails := execshell.CommandDetails{
		Arguments: []string{gitConfigSubcommandNameConstant, gitGlobalFlagConstant, gitAddFlagConstant, gitSafeDirectoryConfigurationKeyConstant, trimmedDirectoryPath},
	}
	if _, additionError := manager.gitExecutor.ExecuteGit(executionContext, additionDetails); additionError != nil {
		return false, additionError
	}

	return true, nil
}

func (manager *RepositoryManager) listTrustedDirectories(executionContext context.Context) ([]string, error) {
	lookupDetails := execshell.CommandDetails{
		Arguments: []string{gitConfigSubcommandNameConstant, gitGlobalFlagConstant, gitGetAllFlagConstant, gitSafeDirectoryConfigurationKeyConstant},
	}

	lookupResult, lookupError := manager.gitExecutor.ExecuteGit(executionContext, lookupDetails)
	if lookupError != nil {
		// git config --get-all exits with status 1 when the key has no entries.
		failedError := execshell.CommandFailedError{}
		if errors.As(lookupError, &failedError) && failedError.Result.ExitCode == missingConfigurationEntryExitCodeConstant {
			return nil, nil
		}
		return nil, lookupError
	}

	registeredDirectories := []string{}
	for _, configurationLine := range strings.Split(lookupResult.StandardOutput, trustedDirectoryListSeparatorConstant) {
		trimmedLine := strings.TrimSpace(configurationLine)
		if len(trimmedLine) == 0 {
			continue
		}
		registeredDirectories = append(registeredDirectories, trimmedLine)
	}

	return registeredDirectories, nil
}
