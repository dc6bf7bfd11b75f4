// Copyright 2026 The kpt Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package buildctx

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	kerrors "github.com/kptdev/git2ispw/internal/errors"
	"github.com/kptdev/git2ispw/pkg/branchmap"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"
)

// DefaultCodePage is the EBCDIC code page used when a connection does not
// name one.
const DefaultCodePage = "1047"

// Settings are the options of the build step. They are read once per
// invocation and not changed afterwards.
type Settings struct {
	// ConnectionID selects the host connection from Connections.
	ConnectionID string `json:"connectionId,omitempty" toml:"connectionId,omitempty"`
	// CredentialsID names the host credentials, see Environment.Credentials.
	CredentialsID string `json:"credentialsId,omitempty" toml:"credentialsId,omitempty"`
	// RuntimeConfig is the ISPW runtime configuration. Left to the CLI
	// when empty.
	RuntimeConfig string `json:"runtimeConfig,omitempty" toml:"runtimeConfig,omitempty"`

	// Stream, App, SubAppl and ISPWConfigPath are the target used when no
	// branch mapping is configured.
	Stream         string `json:"stream,omitempty" toml:"stream,omitempty"`
	App            string `json:"app,omitempty" toml:"app,omitempty"`
	SubAppl        string `json:"subAppl,omitempty" toml:"subAppl,omitempty"`
	ISPWConfigPath string `json:"ispwConfigPath,omitempty" toml:"ispwConfigPath,omitempty"`

	// BranchMapping is the mapping text, see branchmap.Parse.
	BranchMapping string `json:"branchMapping,omitempty" toml:"branchMapping,omitempty"`

	// CLIPath is the installation directory of the ISPW CLI.
	CLIPath string `json:"cliPath,omitempty" toml:"cliPath,omitempty"`
	// MinCLIVersion is a semver constraint the installed CLI must satisfy.
	MinCLIVersion string `json:"minCliVersion,omitempty" toml:"minCliVersion,omitempty"`
	// TargetFolder is where the CLI checks out files. Defaults to the
	// workspace.
	TargetFolder string `json:"targetFolder,omitempty" toml:"targetFolder,omitempty"`
	// ExtraArgs are appended to the CLI command line, shell quoted.
	ExtraArgs string `json:"extraArgs,omitempty" toml:"extraArgs,omitempty"`

	// GitRepoURL is the repository handed to ISPW. Discovered from the
	// workspace remote when empty.
	GitRepoURL string `json:"gitRepoUrl,omitempty" toml:"gitRepoUrl,omitempty"`
	// GitCredentialsID names the git credentials.
	GitCredentialsID string `json:"gitCredentialsId,omitempty" toml:"gitCredentialsId,omitempty"`

	Connections []Connection `json:"connections,omitempty" toml:"connections,omitempty"`
}

// Connection describes a host connection to ISPW.
type Connection struct {
	ID       string `json:"id" toml:"id"`
	Host     string `json:"host" toml:"host"`
	Port     int    `json:"port" toml:"port"`
	CodePage string `json:"codePage,omitempty" toml:"codePage,omitempty"`
	// Timeout is in minutes, 0 leaves the CLI default.
	Timeout  int    `json:"timeout,omitempty" toml:"timeout,omitempty"`
	Protocol string `json:"protocol,omitempty" toml:"protocol,omitempty"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		BranchMapping: branchmap.DefaultMapping,
	}
}

// MappingDefaults returns the scalar target used for the catch-all entry.
func (s Settings) MappingDefaults() branchmap.Defaults {
	return branchmap.Defaults{
		Stream:     s.Stream,
		App:        s.App,
		SubAppl:    s.SubAppl,
		ConfigPath: s.ISPWConfigPath,
	}
}

// Connection returns the connection selected by ConnectionID.
func (s Settings) Connection() (Connection, bool) {
	for _, c := range s.Connections {
		if c.ID == s.ConnectionID {
			if c.CodePage == "" {
				c.CodePage = DefaultCodePage
			}
			return c, true
		}
	}
	return Connection{}, false
}

// clone returns a copy of s that shares no memory with s.
func (s Settings) clone() Settings {
	s.Connections = append([]Connection(nil), s.Connections...)
	return s
}

// Validate checks the settings needed to run a sync.
func (s Settings) Validate() error {
	return s.violations().Err()
}

func (s Settings) violations() kerrors.Violations {
	var v kerrors.Violations
	if s.CLIPath == "" {
		v.Add("cliPath", "", kerrors.Missing, "the ISPW CLI installation directory is required")
	}
	if s.ConnectionID == "" {
		v.Add("connectionId", "", kerrors.Missing, "a host connection is required")
	} else if c, found := s.Connection(); !found {
		v.Add("connectionId", s.ConnectionID, kerrors.Invalid, "no connection with this id is configured")
	} else {
		if c.Host == "" {
			v.Add("connections.host", c.ID, kerrors.Missing, "the connection has no host")
		}
		if c.Port <= 0 || c.Port > 65535 {
			v.Add("connections.port", c.ID, kerrors.Invalid, "the connection port must be between 1 and 65535")
		}
	}
	if s.MinCLIVersion != "" {
		if _, err := semver.NewConstraint(s.MinCLIVersion); err != nil {
			v.Add("minCliVersion", s.MinCLIVersion, kerrors.Invalid, err.Error())
		}
	}
	return v
}

// LoadFile reads settings from a YAML, JSON or TOML file, chosen by the
// file extension. Fields missing from the file keep their default value.
func LoadFile(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, errors.Wrapf(err, "reading settings file %q", path)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		if err := yaml.UnmarshalStrict(data, &s); err != nil {
			return Settings{}, errors.Wrapf(err, "parsing settings file %q", path)
		}
	case ".toml":
		d := toml.NewDecoder(bytes.NewReader(data))
		d.DisallowUnknownFields()
		if err := d.Decode(&s); err != nil {
			return Settings{}, errors.Wrapf(err, "parsing settings file %q", path)
		}
	default:
		return Settings{}, errors.Errorf("settings file %q: unsupported extension %q, "+
			"use .yaml, .yml, .json or .toml", path, ext)
	}
	return s, nil
}

// flagFields maps flag names to the settings field they set.
var flagFields = map[string]func(*Settings) *string{
	"connection-id":      func(s *Settings) *string { return &s.ConnectionID },
	"credentials-id":     func(s *Settings) *string { return &s.CredentialsID },
	"runtime-config":     func(s *Settings) *string { return &s.RuntimeConfig },
	"stream":             func(s *Settings) *string { return &s.Stream },
	"app":                func(s *Settings) *string { return &s.App },
	"sub-appl":           func(s *Settings) *string { return &s.SubAppl },
	"ispw-config-path":   func(s *Settings) *string { return &s.ISPWConfigPath },
	"branch-mapping":     func(s *Settings) *string { return &s.BranchMapping },
	"cli-path":           func(s *Settings) *string { return &s.CLIPath },
	"min-cli-version":    func(s *Settings) *string { return &s.MinCLIVersion },
	"target-folder":      func(s *Settings) *string { return &s.TargetFolder },
	"extra-args":         func(s *Settings) *string { return &s.ExtraArgs },
	"git-repo-url":       func(s *Settings) *string { return &s.GitRepoURL },
	"git-credentials-id": func(s *Settings) *string { return &s.GitCredentialsID },
}

var flagUsage = map[string]string{
	"connection-id":      "id of the host connection (from the settings file) used to reach ISPW.",
	"credentials-id":     "id of the host credentials, read from <ID>_USR and <ID>_PSW.",
	"runtime-config":     "ISPW runtime configuration.",
	"stream":             "ISPW stream used when no branch mapping is configured.",
	"app":                "ISPW application used when no branch mapping is configured.",
	"sub-appl":           "ISPW sub-application used when no branch mapping is configured.",
	"ispw-config-path":   "path of the ispwconfig.yml file used when no branch mapping is configured.",
	"branch-mapping":     "branch mapping, one 'PATTERN = STREAM/APP[/SUBAPPL[/CONFIGPATH]]' rule per line or ';'.",
	"cli-path":           "installation directory of the ISPW CLI.",
	"min-cli-version":    "semver constraint the installed ISPW CLI must satisfy, for ex. '>= 20.4'.",
	"target-folder":      "folder the ISPW CLI works in. Defaults to the workspace.",
	"extra-args":         "additional arguments passed to the ISPW CLI, shell quoted.",
	"git-repo-url":       "git repository URL. Defaults to the URL of the workspace 'origin' remote.",
	"git-credentials-id": "id of the git credentials, read from <ID>_USR and <ID>_PSW.",
}

// AddFlags registers a flag for every scalar setting on fs, storing the
// values in s.
func (s *Settings) AddFlags(fs *pflag.FlagSet) {
	for _, name := range flagNames() {
		p := flagFields[name](s)
		fs.StringVar(p, name, *p, flagUsage[name])
	}
}

// Overlay returns base with every setting whose flag was set on fs
// replaced by the value in flagged.
func Overlay(base Settings, fs *pflag.FlagSet, flagged Settings) Settings {
	out := base.clone()
	fs.Visit(func(f *pflag.Flag) {
		field, found := flagFields[f.Name]
		if !found {
			return
		}
		*field(&out) = *field(&flagged)
	})
	return out
}

func flagNames() []string {
	// registration order decides the help order
	return []string{
		"connection-id", "credentials-id", "runtime-config",
		"stream", "app", "sub-appl", "ispw-config-path", "branch-mapping",
		"cli-path", "min-cli-version", "target-folder", "extra-args",
		"git-repo-url", "git-credentials-id",
	}
}
