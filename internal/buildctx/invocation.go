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

// Package buildctx holds the inputs of one run of the build step: the
// settings, a snapshot of the environment and the invocation built from
// them.
package buildctx

import (
	"github.com/google/uuid"
	kerrors "github.com/kptdev/git2ispw/internal/errors"
	"github.com/kptdev/git2ispw/pkg/hashrange"
)

// Credentials are a user name and password resolved from a credentials id.
type Credentials struct {
	ID       string
	User     string
	Password string
}

// Found reports whether the credentials were resolved.
func (c Credentials) Found() bool {
	return c.User != "" || c.Password != ""
}

// Invocation is everything one run of the build step works from. It is
// built once from the settings and the environment and passed by value,
// nothing reads the process environment after it is built.
type Invocation struct {
	// ID identifies the run in logs.
	ID string

	Settings Settings

	// Branch is the refId supplied by the build agent, unnormalized.
	Branch string

	// Hashes is the commit range supplied by the build agent.
	Hashes hashrange.Pair

	// Workspace is the checked out repository.
	Workspace string

	Host Credentials
	Git  Credentials
}

// New returns the invocation for s and env. Missing values are left
// empty, it is up to the caller to decide which are required.
func New(s Settings, env Environment) Invocation {
	inv := Invocation{
		ID:        uuid.NewString(),
		Settings:  s.clone(),
		Branch:    env.Get(VarRefID, ""),
		Hashes:    hashrange.Pair{From: env.Hash(VarFromHash), To: env.Hash(VarToHash)},
		Workspace: env.Get(VarWorkspace, "."),
		Host:      credentials(env, s.CredentialsID),
		Git:       credentials(env, s.GitCredentialsID),
	}
	return inv
}

func credentials(env Environment, id string) Credentials {
	c := Credentials{ID: id}
	if user, password, ok := env.Credentials(id); ok {
		c.User = user
		c.Password = password
	}
	return c
}

// Validate checks that inv has what a sync needs: valid settings and the
// credentials named by them.
func (inv Invocation) Validate() error {
	v := inv.Settings.violations()
	for _, c := range []struct {
		field string
		creds Credentials
	}{
		{"credentialsId", inv.Host},
		{"gitCredentialsId", inv.Git},
	} {
		if c.creds.ID != "" && !c.creds.Found() {
			v.Add(c.field, c.creds.ID, kerrors.Invalid,
				"no credentials found, set "+c.creds.ID+"_USR and "+c.creds.ID+"_PSW")
		}
	}
	return v.Err()
}

// TargetFolder returns the folder the ISPW CLI works in.
func (inv Invocation) TargetFolder() string {
	if inv.Settings.TargetFolder != "" {
		return inv.Settings.TargetFolder
	}
	return inv.Workspace
}

// WithGitRepoURL returns a copy of inv using url as the repository.
func (inv Invocation) WithGitRepoURL(url string) Invocation {
	inv.Settings = inv.Settings.clone()
	inv.Settings.GitRepoURL = url
	return inv
}
