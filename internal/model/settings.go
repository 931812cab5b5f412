package model

import "fmt"

// LogLevelName is the persisted log verbosity token.
type LogLevelName string

const (
	LogDebug LogLevelName = "debug"
	LogInfo  LogLevelName = "info"
	LogWarn  LogLevelName = "warn"
	LogError LogLevelName = "error"
)

var validLogLevels = map[LogLevelName]bool{
	LogDebug: true,
	LogInfo:  true,
	LogWarn:  true,
	LogError: true,
}

// SiteSettings holds per-site preferences keyed by the site token.
type SiteSettings struct {
	Enabled      bool     `json:"enabled" yaml:"enabled"`
	DefaultRules []string `json:"default_rules" yaml:"default_rules"`
}

// ExtensionSettings is the persisted extension-wide configuration
// surface. The runtime consumes it as an opaque key/value store plus
// these typed fields.
type ExtensionSettings struct {
	Theme                string                  `json:"theme" yaml:"theme"`
	LogLevel             LogLevelName            `json:"log_level" yaml:"log_level"`
	LogRetentionDays     uint16                  `json:"log_retention_days" yaml:"log_retention_days"`
	NotificationsEnabled bool                    `json:"notifications_enabled" yaml:"notifications_enabled"`
	AutoRunRules         bool                    `json:"auto_run_rules" yaml:"auto_run_rules"`
	Sites                map[string]SiteSettings `json:"sites" yaml:"sites"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() ExtensionSettings {
	sites := make(map[string]SiteSettings, len(AllSites))
	for _, s := range AllSites {
		sites[s.Token()] = SiteSettings{Enabled: true}
	}
	return ExtensionSettings{
		Theme:                "system",
		LogLevel:             LogInfo,
		LogRetentionDays:     7,
		NotificationsEnabled: true,
		AutoRunRules:         true,
		Sites:                sites,
	}
}

// Validate checks field domains and fills zero values with defaults.
func (s *ExtensionSettings) Validate() error {
	if s.LogLevel == "" {
		s.LogLevel = LogInfo
	}
	if !validLogLevels[s.LogLevel] {
		return fmt.Errorf("invalid log_level: %q", s.LogLevel)
	}
	if s.LogRetentionDays == 0 {
		s.LogRetentionDays = 7
	}
	for token := range s.Sites {
		if _, err := ParseSiteToken(token); err != nil {
			return fmt.Errorf("settings sites: %w", err)
		}
	}
	return nil
}

// Namespaced storage keys consumed by the engine.
func WorkflowOptionsKey(workflowID, profile string) string {
	return fmt.Sprintf("wf:opts:%s:%s", workflowID, profile)
}

func WorkflowAutorunKey(workflowID string) string {
	return fmt.Sprintf("wf:autorun:%s", workflowID)
}

func WorkflowHistoryKey(workflowID string) string {
	return fmt.Sprintf("wf:history:%s", workflowID)
}
