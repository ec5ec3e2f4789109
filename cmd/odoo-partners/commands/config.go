package commands

import (
	"fmt"
	"time"

	"odoo-partners/internal/components/telemetry"
	"odoo-partners/internal/industry"
	"odoo-partners/internal/scrapers/odoo"
	"odoo-partners/pkg/configutil"
)

// Config is the content of odoo-partners.json5, every key is optional.
type Config struct {
	PageStart     int     `json:"page_start"`
	PageEnd       int     `json:"page_end"`
	SleepS        float64 `json:"sleep_s"`
	ProfileSleepS float64 `json:"profile_sleep_s"`
	OutDir        string  `json:"out_dir"`

	ListingUrl string `json:"listing_url"`
	BaseUrl    string `json:"base_url"`
	// MaxRequestsPerSecond caps listing and profile requests together, 0 is unlimited.
	MaxRequestsPerSecond float64 `json:"max_requests_per_second"`
	// ProfileCacheSize is the number of profiles remembered by url, 0 disables it.
	ProfileCacheSize int `json:"profile_cache_size"`
	// DumpDir receives a text file per http exchange when set.
	DumpDir string `json:"dump_dir"`

	Telemetry telemetry.Config `json:"telemetry"`
}

func defaultConfig() Config {
	return Config{
		PageStart:        1,
		PageEnd:          188,
		SleepS:           1.0,
		ProfileSleepS:    0.0,
		OutDir:           ".",
		ListingUrl:       odoo.DefaultListingUrl,
		BaseUrl:          odoo.DefaultBaseUrl,
		ProfileCacheSize: 4096,
	}
}

func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadOrDefault(path, defaultConfig())
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg, nil
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (c Config) Validate() error {
	if err := c.Pages().Validate(); err != nil {
		return err
	}
	if c.SleepS < 0 {
		return fmt.Errorf("sleep_s must be >= 0, got %v", c.SleepS)
	}
	if c.ProfileSleepS < 0 {
		return fmt.Errorf("profile_sleep_s must be >= 0, got %v", c.ProfileSleepS)
	}
	if c.ProfileCacheSize < 0 {
		return fmt.Errorf("profile_cache_size must be >= 0, got %d", c.ProfileCacheSize)
	}
	if c.MaxRequestsPerSecond < 0 {
		return fmt.Errorf("max_requests_per_second must be >= 0, got %v", c.MaxRequestsPerSecond)
	}
	if c.OutDir == "" {
		return fmt.Errorf("out_dir must not be empty")
	}
	return nil
}

func (c Config) Pages() odoo.PageRange {
	return odoo.PageRange{Start: c.PageStart, End: c.PageEnd}
}

func (c Config) ScraperOptions() odoo.Options {
	return odoo.Options{
		Client: odoo.ClientOptions{
			BaseUrl:              c.BaseUrl,
			ListingUrl:           c.ListingUrl,
			MaxRequestsPerSecond: c.MaxRequestsPerSecond,
		},
		Vocabulary: industry.Default,
		PageDelay:  seconds(c.SleepS),
		Profiles: odoo.EnricherOptions{
			Delay:     seconds(c.ProfileSleepS),
			CacheSize: c.ProfileCacheSize,
		},
	}
}
