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
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/kptdev/git2ispw/internal/errors"
	"github.com/kptdev/git2ispw/pkg/branchmap"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlSettings = `
connectionId: cw09
credentialsId: HOST
runtimeConfig: ispw
branchMapping: |
  feature/** = PLAY/FEAT
  main = PLAY/PROD
cliPath: /opt/ispw/cli
connections:
- id: cw09
  host: cw09.example.com
  port: 47623
`

const tomlSettings = `
connectionId = "cw09"
credentialsId = "HOST"
runtimeConfig = "ispw"
branchMapping = "feature/** = PLAY/FEAT; main = PLAY/PROD"
cliPath = "/opt/ispw/cli"

[[connections]]
id = "cw09"
host = "cw09.example.com"
port = 47623
codePage = "037"
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0600))
	return p
}

func TestLoadFile(t *testing.T) {
	testCases := map[string]struct {
		name     string
		content  string
		codePage string
		mapping  string
	}{
		"yaml": {
			name:     "settings.yaml",
			content:  yamlSettings,
			codePage: DefaultCodePage,
			mapping:  "feature/** = PLAY/FEAT\nmain = PLAY/PROD\n",
		},
		"json": {
			name: "settings.json",
			content: `{"connectionId": "cw09", "credentialsId": "HOST", "runtimeConfig": "ispw",
"branchMapping": "main = PLAY/PROD", "cliPath": "/opt/ispw/cli",
"connections": [{"id": "cw09", "host": "cw09.example.com", "port": 47623}]}`,
			codePage: DefaultCodePage,
			mapping:  "main = PLAY/PROD",
		},
		"toml": {
			name:     "settings.toml",
			content:  tomlSettings,
			codePage: "037",
			mapping:  "feature/** = PLAY/FEAT; main = PLAY/PROD",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			s, err := LoadFile(writeFile(t, tc.name, tc.content))
			require.NoError(t, err)

			assert.Equal(t, "cw09", s.ConnectionID)
			assert.Equal(t, "HOST", s.CredentialsID)
			assert.Equal(t, "/opt/ispw/cli", s.CLIPath)
			assert.Equal(t, tc.mapping, s.BranchMapping)

			c, found := s.Connection()
			require.True(t, found)
			assert.Equal(t, "cw09.example.com", c.Host)
			assert.Equal(t, 47623, c.Port)
			assert.Equal(t, tc.codePage, c.CodePage)
			assert.NoError(t, s.Validate())
		})
	}
}

func TestLoadFile_Errors(t *testing.T) {
	testCases := map[string]struct {
		name    string
		content string
		errMsg  string
	}{
		"unknown yaml field": {
			name:    "s.yaml",
			content: "streem: PLAY\n",
			errMsg:  "parsing settings file",
		},
		"unknown toml field": {
			name:    "s.toml",
			content: "streem = \"PLAY\"\n",
			errMsg:  "parsing settings file",
		},
		"unsupported extension": {
			name:    "s.ini",
			content: "stream=PLAY\n",
			errMsg:  `unsupported extension ".ini"`,
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tc.name, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}

	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading settings file")
}

func TestLoadFile_KeepsDefaultMapping(t *testing.T) {
	s, err := LoadFile(writeFile(t, "s.yaml", "stream: PLAY\napp: TEST\n"))
	require.NoError(t, err)
	assert.Equal(t, branchmap.DefaultMapping, s.BranchMapping)
	assert.Equal(t, branchmap.Defaults{Stream: "PLAY", App: "TEST"}, s.MappingDefaults())
}

func TestValidate(t *testing.T) {
	valid := Settings{
		ConnectionID:  "cw09",
		RuntimeConfig: "ispw",
		CLIPath:       "/opt/ispw/cli",
		Connections:   []Connection{{ID: "cw09", Host: "h", Port: 1}},
	}

	testCases := map[string]struct {
		mutate func(*Settings)
		fields []string
	}{
		"valid": {
			mutate: func(*Settings) {},
		},
		"runtime config is optional": {
			mutate: func(s *Settings) { s.RuntimeConfig = "" },
		},
		"nothing set": {
			mutate: func(s *Settings) { *s = Settings{} },
			fields: []string{"cliPath", "connectionId"},
		},
		"unknown connection": {
			mutate: func(s *Settings) { s.ConnectionID = "other" },
			fields: []string{"connectionId"},
		},
		"bad port and host": {
			mutate: func(s *Settings) {
				s.Connections = []Connection{{ID: "cw09", Port: 70000}}
			},
			fields: []string{"connections.host", "connections.port"},
		},
		"bad version constraint": {
			mutate: func(s *Settings) { s.MinCLIVersion = "not a version" },
			fields: []string{"minCliVersion"},
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			s := valid.clone()
			tc.mutate(&s)
			err := s.Validate()
			if len(tc.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *kerrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.fields, verr.Violations.Fields())
		})
	}
}

func TestOverlay(t *testing.T) {
	base := Settings{
		Stream:      "PLAY",
		App:         "TEST",
		CLIPath:     "/opt/ispw/cli",
		Connections: []Connection{{ID: "cw09"}},
	}

	var flagged Settings
	fs := pflag.NewFlagSet("sync", pflag.ContinueOnError)
	flagged.AddFlags(fs)
	require.NoError(t, fs.Parse([]string{"--app", "PROD", "--sub-appl", ""}))

	out := Overlay(base, fs, flagged)
	assert.Equal(t, "PLAY", out.Stream)
	assert.Equal(t, "PROD", out.App)
	assert.Equal(t, "", out.SubAppl)
	assert.Equal(t, "/opt/ispw/cli", out.CLIPath)

	out.Connections[0].ID = "changed"
	assert.Equal(t, "cw09", base.Connections[0].ID)
}
