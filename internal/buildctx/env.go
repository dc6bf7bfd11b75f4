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
	"strings"

	"github.com/kptdev/git2ispw/pkg/hashrange"
)

// Names of the variables the build agent sets for a build.
const (
	VarRefID     = "refId"
	VarFromHash  = "fromHash"
	VarToHash    = "toHash"
	VarWorkspace = "WORKSPACE"
)

// Suffixes of the variables holding the user and password of a
// credentials id.
const (
	userSuffix     = "_USR"
	passwordSuffix = "_PSW"
)

// Environment is a snapshot of environment variables with surrounding
// whitespace removed from every value.
type Environment struct {
	vars map[string]string
}

// FromOS returns a snapshot of the process environment.
func FromOS() Environment {
	return NewEnvironment(os.Environ())
}

// NewEnvironment returns a snapshot of environ, given as KEY=VALUE
// entries. Entries without '=' are ignored. Later entries win.
func NewEnvironment(environ []string) Environment {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, found := strings.Cut(kv, "=")
		if !found || k == "" {
			continue
		}
		vars[k] = strings.TrimSpace(v)
	}
	return Environment{vars: vars}
}

// Lookup returns the trimmed value of key and whether it is set.
func (e Environment) Lookup(key string) (string, bool) {
	v, found := e.vars[key]
	return v, found
}

// Get returns the trimmed value of key, or def when key is not set.
func (e Environment) Get(key, def string) string {
	if v, found := e.vars[key]; found {
		return v
	}
	return def
}

// Hash returns key as an optional commit hash.
func (e Environment) Hash(key string) hashrange.Hash {
	if v, found := e.vars[key]; found {
		return hashrange.Some(v)
	}
	return hashrange.None()
}

// Credentials returns the user and password stored for id in the
// <ID>_USR and <ID>_PSW variables. ok is false unless both are set.
func (e Environment) Credentials(id string) (user, password string, ok bool) {
	if id == "" {
		return "", "", false
	}
	user, uok := e.vars[id+userSuffix]
	password, pok := e.vars[id+passwordSuffix]
	if !uok || !pok {
		return "", "", false
	}
	return user, password, true
}

// With returns a copy of e with the given variables set. Values are
// trimmed like the ones in the snapshot.
func (e Environment) With(overrides map[string]string) Environment {
	vars := make(map[string]string, len(e.vars)+len(overrides))
	for k, v := range e.vars {
		vars[k] = v
	}
	for k, v := range overrides {
		vars[k] = strings.TrimSpace(v)
	}
	return Environment{vars: vars}
}
