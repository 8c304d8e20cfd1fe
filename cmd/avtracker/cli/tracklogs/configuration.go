package tracklogs

import (
	"strings"

	"github.com/avpipeline/tracker/internal/trackers/logs"
)

const (
	networkConfigurationKeyConstant = ".network"
	tasksConfigurationKeyConstant   = ".tasks"
	defaultNetworkNameConstant      = "Prescient"
)

// CommandConfiguration captures log tracking settings sourced from configuration files.
type CommandConfiguration struct {
	Network string   `mapstructure:"network"`
	Tasks   []string `mapstructure:"tasks"`
}

// DefaultCommandConfiguration returns baseline log tracking settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Network: defaultNetworkNameConstant, Tasks: logs.DefaultTasks()}
}

// DefaultConfigurationValues exposes log tracking defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + networkConfigurationKeyConstant: defaultNetworkNameConstant,
		configurationKeyPrefix + tasksConfigurationKeyConstant:   logs.DefaultTasks(),
	}
}

// Sanitize trims the network name and drops empty task entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Network = strings.TrimSpace(configuration.Network)

	sanitizedTasks := make([]string, 0, len(configuration.Tasks))
	for _, taskName := range configuration.Tasks {
		trimmedTask := strings.TrimSpace(taskName)
		if len(trimmedTask) > 0 {
			sanitizedTasks = append(sanitizedTasks, trimmedTask)
		}
	}
	sanitized.Tasks = sanitizedTasks

	return sanitized
}
