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
	"testing"

	kerrors "github.com/kptdev/git2ispw/internal/errors"
	"github.com/kptdev/git2ispw/pkg/hashrange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironment(t *testing.T) {
	env := NewEnvironment([]string{
		"refId= refs/heads/main \n",
		"fromHash=0000",
		"HOST_USR=alice",
		"HOST_PSW= s3cret",
		"GIT_USR=bob",
		"broken",
		"=nokey",
	})

	v, found := env.Lookup(VarRefID)
	assert.True(t, found)
	assert.Equal(t, "refs/heads/main", v)

	_, found = env.Lookup("broken")
	assert.False(t, found)

	assert.Equal(t, ".", env.Get(VarWorkspace, "."))
	assert.Equal(t, hashrange.Some("0000"), env.Hash(VarFromHash))
	assert.Equal(t, hashrange.None(), env.Hash(VarToHash))

	user, password, ok := env.Credentials("HOST")
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "s3cret", password)

	_, _, ok = env.Credentials("GIT")
	assert.False(t, ok)
	_, _, ok = env.Credentials("")
	assert.False(t, ok)
}

func TestEnvironment_With(t *testing.T) {
	env := NewEnvironment([]string{"refId=main"})
	over := env.With(map[string]string{VarRefID: " develop ", VarToHash: "abc"})

	assert.Equal(t, "develop", over.Get(VarRefID, ""))
	assert.Equal(t, hashrange.Some("abc"), over.Hash(VarToHash))
	assert.Equal(t, "main", env.Get(VarRefID, ""))
	assert.Equal(t, hashrange.None(), env.Hash(VarToHash))
}

func TestNew(t *testing.T) {
	s := Settings{
		CredentialsID:    "HOST",
		GitCredentialsID: "GIT",
		Connections:      []Connection{{ID: "cw09"}},
	}
	env := NewEnvironment([]string{
		"refId=refs/heads/feature/x",
		"fromHash=0000000",
		"toHash=a1b2c3",
		"WORKSPACE=/work/repo",
		"HOST_USR=alice",
		"HOST_PSW=pw",
	})

	inv := New(s, env)
	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, "refs/heads/feature/x", inv.Branch)
	assert.Equal(t, hashrange.Pair{From: hashrange.Some("0000000"), To: hashrange.Some("a1b2c3")}, inv.Hashes)
	assert.Equal(t, "/work/repo", inv.Workspace)
	assert.Equal(t, "/work/repo", inv.TargetFolder())
	assert.Equal(t, Credentials{ID: "HOST", User: "alice", Password: "pw"}, inv.Host)
	assert.False(t, inv.Git.Found())

	s.Connections[0].ID = "changed"
	assert.Equal(t, "cw09", inv.Settings.Connections[0].ID)

	other := New(s, env)
	assert.NotEqual(t, inv.ID, other.ID)

	withURL := inv.WithGitRepoURL("https://example.com/r.git")
	assert.Equal(t, "https://example.com/r.git", withURL.Settings.GitRepoURL)
	assert.Equal(t, "", inv.Settings.GitRepoURL)
}

func TestInvocation_TargetFolder(t *testing.T) {
	inv := New(Settings{TargetFolder: "/tmp/out"}, NewEnvironment(nil))
	assert.Equal(t, "/tmp/out", inv.TargetFolder())
	assert.Equal(t, ".", inv.Workspace)
}

func TestInvocation_Validate(t *testing.T) {
	s := Settings{
		ConnectionID:     "cw09",
		CredentialsID:    "HOST",
		GitCredentialsID: "GIT",
		CLIPath:          "/opt/ispw/cli",
		Connections:      []Connection{{ID: "cw09", Host: "h", Port: 1}},
	}

	testCases := map[string]struct {
		environ  []string
		mutate   func(*Settings)
		fields   []string
		expected string
	}{
		"all credentials found": {
			environ: []string{"HOST_USR=alice", "HOST_PSW=pw", "GIT_USR=bob", "GIT_PSW=tok"},
		},
		"host credentials missing": {
			environ:  []string{"GIT_USR=bob", "GIT_PSW=tok"},
			fields:   []string{"credentialsId"},
			expected: "no credentials found, set HOST_USR and HOST_PSW",
		},
		"git credentials missing": {
			environ:  []string{"HOST_USR=alice", "HOST_PSW=pw"},
			fields:   []string{"gitCredentialsId"},
			expected: "no credentials found, set GIT_USR and GIT_PSW",
		},
		"no credential ids configured": {
			mutate: func(s *Settings) {
				s.CredentialsID = ""
				s.GitCredentialsID = ""
			},
		},
		"settings and credentials reported together": {
			mutate:  func(s *Settings) { s.CLIPath = "" },
			environ: []string{"GIT_USR=bob", "GIT_PSW=tok"},
			fields:  []string{"cliPath", "credentialsId"},
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			settings := s.clone()
			if tc.mutate != nil {
				tc.mutate(&settings)
			}
			err := New(settings, NewEnvironment(tc.environ)).Validate()
			if len(tc.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *kerrors.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.fields, verr.Violations.Fields())
			if tc.expected != "" {
				assert.Equal(t, tc.expected, verr.Violations[len(verr.Violations)-1].Reason)
			}
		})
	}
}
