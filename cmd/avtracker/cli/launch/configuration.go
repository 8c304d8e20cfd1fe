package launch

import "strings"

const (
	repoRootConfigurationKeyConstant            = ".repo_root"
	environmentNameConfigurationKeyConstant     = ".environment_name"
	environmentPathConfigurationKeyConstant     = ".environment_path"
	environmentFileConfigurationKeyConstant     = ".environment_file"
	homeOverrideConfigurationKeyConstant        = ".home_override"
	registerTrustedPathConfigurationKeyConstant = ".register_trusted_path"
	planPathConfigurationKeyConstant            = ".plan_path"
)

// CommandConfiguration captures launcher settings sourced from configuration files.
type CommandConfiguration struct {
	RepoRoot            string `mapstructure:"repo_root"`
	EnvironmentName     string `mapstructure:"environment_name"`
	EnvironmentPath     string `mapstructure:"environment_path"`
	EnvironmentFile     string `mapstructure:"environment_file"`
	HomeOverride        string `mapstructure:"home_override"`
	RegisterTrustedPath bool   `mapstructure:"register_trusted_path"`
	PlanPath            string `mapstructure:"plan_path"`
}

// DefaultCommandConfiguration returns baseline launcher settings.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{RegisterTrustedPath: true}
}

// DefaultConfigurationValues exposes launcher defaults keyed for the configuration loader.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	return map[string]any{
		configurationKeyPrefix + registerTrustedPathConfigurationKeyConstant: true,
	}
}

// Sanitize trims whitespace from every path-valued setting.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RepoRoot = strings.TrimSpace(configuration.RepoRoot)
	sanitized.EnvironmentName = strings.TrimSpace(configuration.EnvironmentName)
	sanitized.EnvironmentPath = strings.TrimSpace(configuration.EnvironmentPath)
	sanitized.EnvironmentFile = strings.TrimSpace(configuration.EnvironmentFile)
	sanitized.HomeOverride = strings.TrimSpace(configuration.HomeOverride)
	sanitized.PlanPath = strings.TrimSpace(configuration.PlanPath)
	return sanitized
}
