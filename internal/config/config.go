// Package config loads crawl options from ${HOME}/.netwasabi/config.xml.
// Values found there seed the defaults that CLI flags may then override.
package config

import (
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"

	"github.com/gamh86/netwasabi/internal/errs"
)

// Options holds every crawl-tunable value, populated first from the config
// file (if present) and then overridden by CLI flags.
type Options struct {
	XMLName xml.Name `xml:"netwasabi"`

	StartURL          string `xml:"start_url"`
	MaxDepth          int    `xml:"max_depth"`
	FastMode          bool   `xml:"fast_mode"`
	Workers           int    `xml:"workers"`
	CacheSetThreshold int    `xml:"cache_set_threshold"`
	CrossDomain       bool   `xml:"cross_domain"`
	UseTLS            bool   `xml:"use_tls"`
	TLSMinVersion     string `xml:"tls_min_version"`
	CrawlDelay        int    `xml:"crawl_delay"`
	Blacklist         string `xml:"blacklist"`
	LogLevel          string `xml:"log_level"`
	MetricsAddr       string `xml:"metrics_addr"`
}

// Default returns the baseline options used when no config file exists and
// no CLI flag overrides a field.
func Default() Options {
	return Options{
		MaxDepth:          5,
		Workers:           8,
		CacheSetThreshold: 0,
		TLSMinVersion:     "1.2",
		CrawlDelay:        0,
		LogLevel:          "info",
		MetricsAddr:       ":9090",
	}
}

// ConfigPath returns ${HOME}/.netwasabi/config.xml.
func ConfigPath() (string, error) {
	// go-homedir caches its result; reset it so a changed HOME is honoured.
	homedir.Reset()
	home, err := homedir.Dir()
	if err != nil {
		return "", errs.Wrap(errs.ConfigError, "resolve home directory failed", err)
	}
	return filepath.Join(home, ".netwasabi", "config.xml"), nil
}

// Load reads and parses the config file if present, merging it on top of
// Default(). A missing file is not an error.
func Load(log *logrus.Logger) (Options, error) {
	opts := Default()

	path, err := ConfigPath()
	if err != nil {
		return opts, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return opts, nil
	}
	if err != nil {
		return opts, errs.Wrap(errs.ConfigError, "read config file failed", err)
	}

	if err := xml.Unmarshal(data, &opts); err != nil {
		return opts, errs.Wrap(errs.ConfigError, "parse config file failed", err)
	}

	if log != nil {
		log.WithField("path", path).Debug("found config node with values")
	}
	return opts, nil
}

// PagesDir returns ${HOME}/.netwasabi/pages, where fetched page bodies are
// persisted.
func PagesDir() (string, error) {
	homedir.Reset()
	home, err := homedir.Dir()
	if err != nil {
		return "", errs.Wrap(errs.ConfigError, "resolve home directory failed", err)
	}
	return filepath.Join(home, ".netwasabi", "pages"), nil
}
