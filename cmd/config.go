// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 moteus-go contributors

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// fileConfig maps config.toml keys onto connection settings.
type fileConfig struct {
	Port       string `toml:"port"`
	Baud       int    `toml:"baud"`
	URL        string `toml:"url"`
	Username   string `toml:"username"`
	ID         uint8  `toml:"id"`
	DisableBRS bool   `toml:"no_brs"`
}

// settings is the effective configuration after overlaying flags on the
// config file.
type settings struct {
	Port       string
	Baud       int
	URL        string
	Username   string
	NoVerify   bool
	ID         uint8
	DisableBRS bool
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "moteus", "config.toml")
}

// loadSettings reads the config file (if present) and overlays any flags
// the user set explicitly. Flags always win over file values.
func loadSettings() (settings, error) {
	s := settings{
		Port:       portName,
		Baud:       baudRate,
		URL:        wsURL,
		Username:   wsUsername,
		NoVerify:   wsNoSSLVerify,
		ID:         deviceID,
		DisableBRS: disableBRS,
	}

	path := configPath
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
		if path == "" {
			return s, nil
		}
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return settings{}, fmt.Errorf("load config %s: %w", path, err)
	}

	flags := rootCmd.PersistentFlags()
	return applyFile(s, raw, meta, flags.Changed), nil
}

// applyFile overlays file values onto s for every key the file defines and
// the user did not override on the command line.
func applyFile(s settings, raw fileConfig, meta toml.MetaData, changed func(string) bool) settings {
	if meta.IsDefined("port") && !changed("port") {
		s.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud") && !changed("baud") {
		s.Baud = raw.Baud
	}
	if meta.IsDefined("url") && !changed("url") {
		s.URL = strings.TrimSpace(raw.URL)
	}
	if meta.IsDefined("username") && !changed("username") {
		s.Username = strings.TrimSpace(raw.Username)
	}
	if meta.IsDefined("id") && !changed("id") {
		s.ID = raw.ID
	}
	if meta.IsDefined("no_brs") && !changed("no-brs") {
		s.DisableBRS = raw.DisableBRS
	}
	return s
}
