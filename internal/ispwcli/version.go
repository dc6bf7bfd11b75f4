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

package ispwcli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/kptdev/git2ispw/internal/errors"
)

// VersionFile is the file in the CLI installation holding its version.
const VersionFile = "version.txt"

// VersionError is returned when the installed CLI does not satisfy the
// required version constraint.
type VersionError struct {
	Installed  string
	Constraint string
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("ISPW CLI version %s does not satisfy %q", e.Installed, e.Constraint)
}

// InstalledVersion reads the version of the CLI installed in cliPath.
func InstalledVersion(cliPath string) (*semver.Version, error) {
	const op errors.Op = "ispwcli.InstalledVersion"
	b, err := os.ReadFile(filepath.Join(cliPath, VersionFile))
	if err != nil {
		return nil, errors.E(op, errors.IO, err)
	}
	raw := strings.TrimSpace(string(b))
	v, err := semver.NewVersion(raw)
	if err != nil {
		return nil, errors.E(op, errors.InvalidParam, fmt.Errorf("%s: %q: %w", VersionFile, raw, err))
	}
	return v, nil
}

// CheckVersion verifies that the CLI installed in cliPath satisfies
// constraint.
func CheckVersion(cliPath, constraint string) error {
	const op errors.Op = "ispwcli.CheckVersion"
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return errors.E(op, errors.InvalidParam, err)
	}
	v, err := InstalledVersion(cliPath)
	if err != nil {
		return errors.E(op, err)
	}
	if !c.Check(v) {
		return errors.E(op, errors.Sync, &VersionError{
			Installed:  v.Original(),
			Constraint: constraint,
		})
	}
	return nil
}
