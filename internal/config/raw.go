package config

// RawConfig mirrors Config with pointer fields so that keys absent from the
// file keep their defaults.
type RawConfig struct {
	LogLevel            *string  `yaml:"log_level"`
	RefreshInterval     *int     `yaml:"refresh_interval"`
	ToggleHotkey        *string  `yaml:"toggle_hotkey"`
	Display             *string  `yaml:"display"`
	HTTPListen          *string  `yaml:"http_listen"`
	MinTitleLength      *int     `yaml:"min_title_length"`
	HelperTitlePrefixes []string `yaml:"helper_title_prefixes"`

	RollbackOnGeometryFailure *bool `yaml:"rollback_on_geometry_failure"`
	ValidateBeforeRestore     *bool `yaml:"validate_before_restore"`
	PruneStaleEntries         *bool `yaml:"prune_stale_entries"`
}

// apply overlays every field set in r onto cfg.
func (r RawConfig) apply(cfg *Config) {
	if r.LogLevel != nil {
		cfg.LogLevel = *r.LogLevel
	}
	if r.RefreshInterval != nil {
		cfg.RefreshInterval = *r.RefreshInterval
	}
	if r.ToggleHotkey != nil {
		cfg.ToggleHotkey = *r.ToggleHotkey
	}
	if r.Display != nil {
		cfg.Display = *r.Display
	}
	if r.HTTPListen != nil {
		cfg.HTTPListen = *r.HTTPListen
	}
	if r.MinTitleLength != nil {
		cfg.MinTitleLength = *r.MinTitleLength
	}
	if r.HelperTitlePrefixes != nil {
		cfg.HelperTitlePrefixes = append([]string(nil), r.HelperTitlePrefixes...)
	}
	if r.RollbackOnGeometryFailure != nil {
		cfg.RollbackOnGeometryFailure = *r.RollbackOnGeometryFailure
	}
	if r.ValidateBeforeRestore != nil {
		cfg.ValidateBeforeRestore = *r.ValidateBeforeRestore
	}
	if r.PruneStaleEntries != nil {
		cfg.PruneStaleEntries = *r.PruneStaleEntries
	}
}
