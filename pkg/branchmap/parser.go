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
	"strings"
)

const (
	// CatchAll is the pattern of the entry synthesized when no mapping is
	// configured.
	CatchAll = "**"

	patternSep = "="
	fieldSep   = "/"
	commentTag = "#"

	// maxFields is the number of fields on the right-hand side of a record:
	// stream, app, subAppl and config path.
	maxFields = 4
)

// DefaultMapping is the mapping text used when none is configured. It only
// contains comments, so parsing it yields the catch-all entry built from
// the Defaults.
const DefaultMapping = `#The branch mapping maps git branches to ISPW targets, one rule per line.
#Rules are evaluated top to bottom and the first matching rule wins.
#
#  PATTERN = STREAM/APP[/SUBAPPL[/ISPW_CONFIG_PATH]]
#
#'**' matches anything, '*' matches anything but '/', '?' matches one character.
#
#release/* = STREAM1/APP1
#feature/** = STREAM1/APP1/SUB1
#main = STREAM2/APP2//config/ispwconfig.yml
`

// Defaults holds the scalar stream/app settings used to synthesize a
// catch-all entry when the mapping text has no records.
type Defaults struct {
	Stream     string
	App        string
	SubAppl    string
	ConfigPath string
}

// Entry pairs a branch pattern with the RefMap it resolves to.
type Entry struct {
	Pattern Pattern
	RefMap  RefMap

	// Position is the 1-based position of the record in the mapping text.
	// It is 0 for a synthesized entry.
	Position int
}

// Table is the ordered list of entries parsed from a mapping. The order is
// the declaration order and decides precedence. A Table is never empty and
// never contains two entries with the same pattern.
type Table struct {
	entries []Entry
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// Entries returns a copy of the entries in declaration order.
func (t *Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Synthesized reports whether the table is the catch-all entry built from
// Defaults rather than from mapping records.
func (t *Table) Synthesized() bool {
	return len(t.entries) == 1 && t.entries[0].Position == 0
}

// String serializes the table back into mapping text, one record per line.
func (t *Table) String() string {
	lines := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		lines = append(lines, FormatRecord(e.Pattern.String(), e.RefMap))
	}
	return strings.Join(lines, "\n")
}

// FormatRecord renders a single mapping record.
func FormatRecord(pattern string, r RefMap) string {
	return pattern + " " + patternSep + " " + r.String()
}

// Parse turns the mapping text into a Table. Records are separated by
// newlines or ';' and have the form
//
//	PATTERN = STREAM/APP[/SUBAPPL[/CONFIGPATH]]
//
// Blank records and records starting with '#' are ignored. When no records
// remain, a single catch-all entry is built from defaults.
func Parse(text string, defaults Defaults) (*Table, error) {
	records := splitRecords(text)
	if len(records) == 0 {
		return defaultTable(defaults)
	}

	t := &Table{entries: make([]Entry, 0, len(records))}
	seen := make(map[string]int, len(records))
	for i, rec := range records {
		pos := i + 1
		e, err := parseRecord(rec, pos)
		if err != nil {
			return nil, err
		}
		if prev, found := seen[e.Pattern.String()]; found {
			return nil, &ConfigurationError{
				Position: pos,
				Record:   rec,
				Reason: fmt.Sprintf("pattern %q is already mapped by record %d",
					e.Pattern.String(), prev),
			}
		}
		seen[e.Pattern.String()] = pos
		t.entries = append(t.entries, e)
	}
	return t, nil
}

func splitRecords(text string) []string {
	var records []string
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), commentTag) {
			continue
		}
		for _, rec := range strings.Split(line, ";") {
			rec = strings.TrimSpace(rec)
			if rec == "" || strings.HasPrefix(rec, commentTag) {
				continue
			}
			records = append(records, rec)
		}
	}
	return records
}

func parseRecord(rec string, pos int) (Entry, error) {
	fail := func(format string, args ...interface{}) (Entry, error) {
		return Entry{}, &ConfigurationError{
			Position: pos,
			Record:   rec,
			Reason:   fmt.Sprintf(format, args...),
		}
	}

	if n := strings.Count(rec, patternSep); n != 1 {
		return fail("expected exactly one %q between pattern and target, found %d", patternSep, n)
	}
	lhs, rhs, _ := strings.Cut(rec, patternSep)

	pattern, err := CompilePattern(lhs)
	if err != nil {
		return fail("%v", err)
	}

	fields := strings.SplitN(rhs, fieldSep, maxFields)
	if len(fields) < 2 {
		return fail("expected STREAM/APP[/SUBAPPL[/CONFIGPATH]], found %d field(s)", len(fields))
	}
	for len(fields) < maxFields {
		fields = append(fields, "")
	}

	r, err := NewRefMap(fields[0], fields[1], fields[2], fields[3])
	if err != nil {
		if ce, ok := err.(*ConfigurationError); ok {
			return fail("%s", ce.Reason)
		}
		return Entry{}, err
	}
	return Entry{Pattern: pattern, RefMap: r, Position: pos}, nil
}

func defaultTable(d Defaults) (*Table, error) {
	r, err := NewRefMap(d.Stream, d.App, d.SubAppl, d.ConfigPath)
	if err != nil {
		return nil, &ConfigurationError{
			Reason: "no branch mapping configured and no default stream and " +
				"application set",
		}
	}
	p, err := CompilePattern(CatchAll)
	if err != nil {
		return nil, err
	}
	return &Table{entries: []Entry{{Pattern: p, RefMap: r}}}, nil
}
