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

package printer

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptPrintf(t *testing.T) {
	testCases := map[string]struct {
		opt            *Options
		format         string
		args           []interface{}
		expectedStdout string
		expectedStderr string
	}{
		"nil options": {
			format:         "General message\n",
			expectedStderr: "General message\n",
		},
		"with branch": {
			opt:            NewOpt().WithBranch("release/1.0"),
			format:         "resolved to %s\n",
			args:           []interface{}{"S/A"},
			expectedStderr: "Branch \"release/1.0\": resolved to S/A\n",
		},
		"indented": {
			opt:            NewOpt().Indent(2),
			format:         "line one\n\nline two\n",
			expectedStderr: "  line one\n\n  line two\n",
		},
		"to stdout": {
			opt:            NewOpt().Stdout(),
			format:         "result\n",
			expectedStdout: "result\n",
		},
	}

	for tn, tc := range testCases {
		t.Run(tn, func(t *testing.T) {
			var out, errOut bytes.Buffer
			pr := New(&out, &errOut)
			pr.OptPrintf(tc.opt, tc.format, tc.args...)
			assert.Equal(t, tc.expectedStdout, out.String())
			assert.Equal(t, tc.expectedStderr, errOut.String())
		})
	}
}

func TestPrintf(t *testing.T) {
	var out, errOut bytes.Buffer
	pr := New(&out, &errOut)
	pr.Printf("branch mapping = %s\n", "main = S/A")

	assert.Empty(t, out.String())
	assert.Equal(t, "branch mapping = main = S/A\n", errOut.String())
}

func TestContext(t *testing.T) {
	pr := New(nil, nil)
	ctx := WithContext(context.Background(), pr)
	assert.Equal(t, pr, FromContextOrDie(ctx))

	assert.Panics(t, func() {
		FromContextOrDie(context.Background())
	})
}
