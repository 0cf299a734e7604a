// Package config loads and exposes application configuration (TOML).
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Default configuration values used when a field is missing in TOML.
const (
	DefaultConfigPath = "config.toml"
	DefaultHTTPAddr   = ":8080"
	DefaultSiteBase   = "http://localhost:8080"
	DefaultMediaRoot  = "data/media"
	DefaultMediaBase  = "/media"
	DefaultAudioBase  = "/media/audio"
	DefaultVideoBase  = "/media/video"
	DefaultJWTExpires = "24h"
	DefaultRescanCron = "@every 5m"
	DefaultSMTPPort   = 587
	DefaultMode       = "self-hosted"
)

// Config is the root application configuration loaded from TOML.
type Config struct {
	Log    LogConfig    `toml:"log"`
	Server ServerConfig `toml:"server"`
	Admin  AdminConfig  `toml:"admin"`
	Auth   AuthConfig   `toml:"auth"`
	Media  MediaConfig  `toml:"media"`
	Limits LimitsConfig `toml:"limits"`
	SMTP   SMTPConfig   `toml:"smtp"`
}

// LogConfig holds logging level and format (e.g. level=info, format=text).
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// ServerConfig holds the HTTP server listen address and the public base URL
// used when building links to published pages.
type ServerConfig struct {
	Addr     string `toml:"addr"`
	SiteBase string `toml:"site_base"`
}

// AdminConfig holds the single admin account (username, password hash, email).
type AdminConfig struct {
	Username     string `toml:"username"`
	PasswordHash string `toml:"password_hash"`
	Email        string `toml:"email"`
}

// AuthConfig holds JWT secret and token expiry (e.g. 24h).
type AuthConfig struct {
	JWTSecret    string `toml:"jwt_secret"`
	JWTExpiresIn string `toml:"jwt_expires_in"`
}

// MediaConfig holds the media root directory, public base paths, and
// variant resolution behavior.
type MediaConfig struct {
	Root       string `toml:"root"`
	ImageBase  string `toml:"image_base"`
	AudioBase  string `toml:"audio_base"`
	VideoBase  string `toml:"video_base"`
	RescanCron string `toml:"rescan_cron"`
	// StrictVariants makes a missing named size variant a visible
	// diagnostic instead of silently falling back to the original asset.
	StrictVariants bool `toml:"strict_variants"`
}

// LimitsConfig holds the deployment mode and user-facing upload ceilings in MB.
// Zero means unset; hosted deployments clamp these against platform ceilings.
type LimitsConfig struct {
	Mode       string `toml:"mode"`
	MaxImageMB int64  `toml:"max_image_mb"`
	MaxVideoMB int64  `toml:"max_video_mb"`
	MaxAudioMB int64  `toml:"max_audio_mb"`
}

// SMTPConfig holds outbound mail settings; empty host keeps the logging
// email adapter.
type SMTPConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	From     string `toml:"from"`
}

// Load reads and parses the TOML config file at path and applies default values for missing fields.
func Load(path string) (Config, error) {
	cfg := Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:     DefaultHTTPAddr,
			SiteBase: DefaultSiteBase,
		},
		Auth: AuthConfig{
			JWTExpiresIn: DefaultJWTExpires,
		},
		Media: MediaConfig{
			Root:       DefaultMediaRoot,
			ImageBase:  DefaultMediaBase,
			AudioBase:  DefaultAudioBase,
			VideoBase:  DefaultVideoBase,
			RescanCron: DefaultRescanCron,
		},
		Limits: LimitsConfig{
			Mode: DefaultMode,
		},
		SMTP: SMTPConfig{
			Port: DefaultSMTPPort,
		},
	}

	if path == "" {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}
