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

package errors

import (
	"fmt"
	"testing"

	"gotest.tools/assert"
)

func TestError_Error(t *testing.T) {
	testCases := map[string]struct {
		err      error
		expected string
	}{
		"op and kind": {
			err:      E(Op("publish.Publish"), Config, fmt.Errorf("bad record")),
			expected: "publish.Publish: configuration error: bad record",
		},
		"branch and repo": {
			err: E(Op("publish.Publish"), Branch("main"), Repo("https://example.com/r.git"),
				"boom"),
			expected: "publish.Publish: branch main: repo https://example.com/r.git: boom",
		},
		"nested error drops duplicated fields": {
			err: E(Op("publish.Publish"), Branch("main"),
				E(Op("gitutil.RemoteURL"), Branch("main"), Git, "exit status 128")),
			expected: "publish.Publish: branch main:\n\tgitutil.RemoteURL: git error: exit status 128",
		},
		"empty": {
			err:      &Error{},
			expected: "no error",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.err.Error())
		})
	}
}

func TestE_UnknownArgPanics(t *testing.T) {
	defer func() {
		assert.Assert(t, recover() != nil)
	}()
	_ = E(Op("x"), 42)
}

func TestUnwrapErrors(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := E(Op("outer"), E(Op("inner"), IO, cause))

	unwrapped, ok := UnwrapErrors(err)
	assert.Assert(t, ok)
	assert.Equal(t, cause, unwrapped)

	_, ok = UnwrapErrors(fmt.Errorf("plain"))
	assert.Assert(t, !ok)
}

func TestAs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", E(Op("op"), Sync, "failed"))

	var e *Error
	assert.Assert(t, As(err, &e))
	assert.Equal(t, Sync, e.Kind)
}

func TestViolations(t *testing.T) {
	var v Violations
	assert.NilError(t, v.Err())

	v.Add("stream", "", Missing, "stream is required")
	v.Add("connectionId", "x", Invalid, "unknown connection")
	assert.Error(t, v.Err(), `validation failed for fields "stream", "connectionId"`)
}
