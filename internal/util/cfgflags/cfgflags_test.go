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

package cfgflags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kptdev/git2ispw/internal/buildctx"
	"github.com/kptdev/git2ispw/pkg/branchmap"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsFlags(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("stream: PLAY\napp: TEST\ncliPath: /opt/cli\n"), 0600))
	mappingFile := filepath.Join(dir, "mapping.txt")
	require.NoError(t, os.WriteFile(mappingFile, []byte("main = PLAY/PROD\n"), 0600))

	testCases := map[string]struct {
		args     []string
		validate func(t *testing.T, s buildctx.Settings)
	}{
		"defaults": {
			args: nil,
			validate: func(t *testing.T, s buildctx.Settings) {
				assert.Equal(t, branchmap.DefaultMapping, s.BranchMapping)
				assert.Equal(t, "", s.Stream)
			},
		},
		"file": {
			args: []string{"--config", cfg},
			validate: func(t *testing.T, s buildctx.Settings) {
				assert.Equal(t, "PLAY", s.Stream)
				assert.Equal(t, "TEST", s.App)
				assert.Equal(t, branchmap.DefaultMapping, s.BranchMapping)
			},
		},
		"flags override file": {
			args: []string{"--config", cfg, "--app", "PROD", "--cli-path", "/usr/cli"},
			validate: func(t *testing.T, s buildctx.Settings) {
				assert.Equal(t, "PLAY", s.Stream)
				assert.Equal(t, "PROD", s.App)
				assert.Equal(t, "/usr/cli", s.CLIPath)
			},
		},
		"mapping file": {
			args: []string{"--branch-mapping", "x = A/B", "--branch-mapping-file", mappingFile},
			validate: func(t *testing.T, s buildctx.Settings) {
				assert.Equal(t, "main = PLAY/PROD\n", s.BranchMapping)
			},
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			f := &SettingsFlags{}
			f.AddFlags(fs)
			require.NoError(t, fs.Parse(tc.args))

			s, err := f.Settings(fs)
			require.NoError(t, err)
			tc.validate(t, s)
		})
	}
}

func TestSettingsFlags_Errors(t *testing.T) {
	for tn, args := range map[string][]string{
		"missing config":       {"--config", filepath.Join(t.TempDir(), "nope.yaml")},
		"missing mapping file": {"--branch-mapping-file", filepath.Join(t.TempDir(), "nope.txt")},
	} {
		t.Run(tn, func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			f := &SettingsFlags{}
			f.AddFlags(fs)
			require.NoError(t, fs.Parse(args))
			_, err := f.Settings(fs)
			assert.Error(t, err)
		})
	}
}

func TestEnvFlags(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := &EnvFlags{}
	f.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--ref-id", " feature/x ", "--from-hash", ""}))

	env := f.Environment(fs, buildctx.NewEnvironment([]string{
		"refId=main", "fromHash=abc", "toHash=def",
	}))
	assert.Equal(t, "feature/x", env.Get(buildctx.VarRefID, ""))
	v, found := env.Lookup(buildctx.VarFromHash)
	assert.True(t, found)
	assert.Equal(t, "", v)
	assert.Equal(t, "def", env.Get(buildctx.VarToHash, ""))
	_, found = env.Lookup(buildctx.VarWorkspace)
	assert.False(t, found)
}
