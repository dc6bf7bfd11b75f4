// Copyright 2021 The kpt Authors
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

// Package cfgflags binds the build step settings and build variables to
// command flags.
package cfgflags

import (
	"os"

	"github.com/kptdev/git2ispw/internal/buildctx"
	"github.com/kptdev/git2ispw/internal/errors"
	"github.com/spf13/pflag"
)

// SettingsFlags reads the settings from an optional file and overrides
// them with the flags set on the command line.
type SettingsFlags struct {
	// ConfigFile is a YAML, JSON or TOML settings file.
	ConfigFile string
	// BranchMappingFile holds the branch mapping text.
	BranchMappingFile string

	flagged buildctx.Settings
}

// AddFlags registers the settings flags on fs.
func (f *SettingsFlags) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.ConfigFile, "config", "",
		"settings file (.yaml, .yml, .json or .toml).")
	fs.StringVar(&f.BranchMappingFile, "branch-mapping-file", "",
		"file holding the branch mapping. Overrides --branch-mapping.")
	f.flagged = buildctx.DefaultSettings()
	f.flagged.AddFlags(fs)
}

// Settings returns the settings for the parsed flags in fs.
func (f *SettingsFlags) Settings(fs *pflag.FlagSet) (buildctx.Settings, error) {
	const op errors.Op = "cfgflags.Settings"

	s := buildctx.DefaultSettings()
	if f.ConfigFile != "" {
		var err error
		s, err = buildctx.LoadFile(f.ConfigFile)
		if err != nil {
			return buildctx.Settings{}, errors.E(op, errors.Config, err)
		}
	}
	s = buildctx.Overlay(s, fs, f.flagged)

	if f.BranchMappingFile != "" {
		b, err := os.ReadFile(f.BranchMappingFile)
		if err != nil {
			return buildctx.Settings{}, errors.E(op, errors.IO, err)
		}
		s.BranchMapping = string(b)
	}
	return s, nil
}

// Names of the flags that override build variables.
const (
	RefIDFlag     = "ref-id"
	FromHashFlag  = "from-hash"
	ToHashFlag    = "to-hash"
	WorkspaceFlag = "workspace"
)

var envFlags = map[string]string{
	RefIDFlag:     buildctx.VarRefID,
	FromHashFlag:  buildctx.VarFromHash,
	ToHashFlag:    buildctx.VarToHash,
	WorkspaceFlag: buildctx.VarWorkspace,
}

// EnvFlags override the build variables of the environment.
type EnvFlags struct {
	values map[string]*string
}

// AddFlags registers the build variable flags on fs.
func (f *EnvFlags) AddFlags(fs *pflag.FlagSet) {
	f.values = make(map[string]*string, len(envFlags))
	f.values[RefIDFlag] = fs.String(RefIDFlag, "",
		"git branch of the build. Defaults to the refId environment variable.")
	f.values[FromHashFlag] = fs.String(FromHashFlag, "",
		"first commit of the build. Defaults to the fromHash environment variable.")
	f.values[ToHashFlag] = fs.String(ToHashFlag, "",
		"last commit of the build. Defaults to the toHash environment variable.")
	f.values[WorkspaceFlag] = fs.String(WorkspaceFlag, "",
		"checked out repository. Defaults to the WORKSPACE environment variable, then the current directory.")
}

// Environment returns env with the variables whose flags were set on fs
// replaced.
func (f *EnvFlags) Environment(fs *pflag.FlagSet, env buildctx.Environment) buildctx.Environment {
	overrides := map[string]string{}
	fs.Visit(func(fl *pflag.Flag) {
		if v, found := envFlags[fl.Name]; found {
			overrides[v] = *f.values[fl.Name]
		}
	})
	return env.With(overrides)
}
