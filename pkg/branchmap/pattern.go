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
	"fmt"
	"regexp"
	"strings"
)

// HeadsPrefix is stripped from branch identifiers and patterns before
// matching, so that refs/heads/main and main are the same branch.
const HeadsPrefix = "refs/heads/"

// Pattern is a compiled branch pattern.
//
//	**  matches any run of characters, including '/'
//	*   matches any run of characters except '/'
//	?   matches exactly one character except '/'
//
// Every other character matches itself. A pattern always matches the whole
// branch identifier, never a substring, and matching is case-sensitive.
type Pattern struct {
	text string
	re   *regexp.Regexp
}

// CompilePattern compiles the pattern text. A leading refs/heads/ is
// removed first.
func CompilePattern(text string) (Pattern, error) {
	text = NormalizeBranch(text)
	if text == "" {
		return Pattern{}, fmt.Errorf("pattern is empty")
	}
	if strings.Contains(text, "***") {
		return Pattern{}, fmt.Errorf("pattern %q has more than two consecutive '*'", text)
	}
	re, err := regexp.Compile(globToRegex(text))
	if err != nil {
		return Pattern{}, fmt.Errorf("pattern %q: %w", text, err)
	}
	return Pattern{text: text, re: re}, nil
}

// String returns the normalized pattern text.
func (p Pattern) String() string {
	return p.text
}

// Match reports whether the normalized branch is matched by the pattern.
func (p Pattern) Match(branch string) bool {
	if p.re == nil {
		return false
	}
	return p.re.MatchString(branch)
}

// NormalizeBranch trims whitespace and a leading refs/heads/ from a branch
// identifier.
func NormalizeBranch(branch string) string {
	return strings.TrimPrefix(strings.TrimSpace(branch), HeadsPrefix)
}

func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		switch ch := runes[i]; ch {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				b.WriteString(".*")
				i++
				continue
			}
			b.WriteString("[^/]*")
		case '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	b.WriteString("$")
	return b.String()
}
