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
	"os"
	"path/filepath"

	"github.com/kptdev/git2ispw/internal/errors"
)

// ParmFile is the build parameter file the CLI leaves in the workspace.
// A file from an earlier build would make the next build step act on the
// wrong tasks.
const ParmFile = "automaticBuildParams.txt"

// RemoveStaleParmFile deletes ParmFile from dir. It reports whether a file
// was removed.
func RemoveStaleParmFile(dir string) (bool, error) {
	const op errors.Op = "ispwcli.RemoveStaleParmFile"
	p := filepath.Join(dir, ParmFile)
	err := os.Remove(p)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, errors.E(op, errors.IO, err)
	}
}
