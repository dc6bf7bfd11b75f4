// Copyright 2021 Google LLC
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

package cmdutil

import (
	"fmt"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestFixDocs(t *testing.T) {
	c := &cobra.Command{
		Use:     "git2ispw sync",
		Short:   "run git2ispw sync",
		Long:    "git2ispw sync synchronizes",
		Example: "  git2ispw sync --dry-run",
	}
	FixDocs("git2ispw", "ispw", c)
	assert.Equal(t, "ispw sync", c.Use)
	assert.Equal(t, "run ispw sync", c.Short)
	assert.Equal(t, "ispw sync synchronizes", c.Long)
	assert.Equal(t, "  ispw sync --dry-run", c.Example)
}

func TestPrintErrorStacktrace(t *testing.T) {
	testCases := map[string]struct {
		flag     bool
		env      string
		expected bool
	}{
		"off":       {},
		"flag":      {flag: true, expected: true},
		"env true":  {env: "true", expected: true},
		"env 1":     {env: "1", expected: true},
		"env other": {env: "yes"},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			org := StackOnError
			defer func() { StackOnError = org }()
			StackOnError = tc.flag
			t.Setenv(StackTraceOnErrors, tc.env)
			assert.Equal(t, tc.expected, PrintErrorStacktrace())
		})
	}
}

type testError struct{}

func (testError) Error() string { return "boom" }

func TestWithStack(t *testing.T) {
	org := StackOnError
	defer func() { StackOnError = org }()
	t.Setenv(StackTraceOnErrors, "")

	cause := testError{}
	StackOnError = false
	assert.Equal(t, error(cause), WithStack(cause))
	assert.Equal(t, "", Stack(cause))
	assert.Nil(t, WithStack(nil))

	StackOnError = true
	err := WithStack(fmt.Errorf("wrapped: %w", cause))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, Stack(err), "TestWithStack")
	assert.Equal(t, err, WithStack(err))
}
