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

package branchmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefMap(t *testing.T) {
	r, err := NewRefMap(" STR ", "APP", " SUB", "cfg/ispwconfig.yml ")
	require.NoError(t, err)
	assert.Equal(t, "STR", r.Stream())
	assert.Equal(t, "APP", r.App())
	assert.Equal(t, "SUB", r.SubAppl())
	assert.Equal(t, "cfg/ispwconfig.yml", r.ConfigPath())
	assert.False(t, r.IsZero())

	_, err = NewRefMap("", "APP", "", "")
	assert.EqualError(t, err, "invalid branch mapping: stream is required")

	_, err = NewRefMap("STR", " ", "", "")
	assert.EqualError(t, err, "invalid branch mapping: application is required")
}

func TestRefMap_Equality(t *testing.T) {
	a, _ := NewRefMap("S", "A", "", "")
	b, _ := NewRefMap("S", "A", "", "")
	c, _ := NewRefMap("S", "A", "SUB", "")

	assert.True(t, a == b)
	assert.False(t, a == c)
}

func TestRefMap_String(t *testing.T) {
	testCases := map[string]struct {
		fields   [4]string
		expected string
	}{
		"stream and app": {
			fields:   [4]string{"S", "A", "", ""},
			expected: "S/A",
		},
		"with sub-application": {
			fields:   [4]string{"S", "A", "SUB", ""},
			expected: "S/A/SUB",
		},
		"config path without sub-application": {
			fields:   [4]string{"S", "A", "", "x/y.yml"},
			expected: "S/A//x/y.yml",
		},
		"all fields": {
			fields:   [4]string{"S", "A", "SUB", "y.yml"},
			expected: "S/A/SUB/y.yml",
		},
	}
	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			r, err := NewRefMap(tc.fields[0], tc.fields[1], tc.fields[2], tc.fields[3])
			require.NoError(t, err)
			assert.Equal(t, tc.expected, r.String())
		})
	}
}
