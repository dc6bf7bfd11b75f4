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
	"strings"
)

// RefMap describes the ISPW target a branch is synchronized into.
// A RefMap is a value: two RefMaps are equal (==) iff all fields are equal,
// and it cannot be modified once created.
type RefMap struct {
	stream     string
	app        string
	subAppl    string
	configPath string
}

// NewRefMap returns a RefMap for the given fields. Fields are trimmed;
// stream and app are required.
func NewRefMap(stream, app, subAppl, configPath string) (RefMap, error) {
	r := RefMap{
		stream:     strings.TrimSpace(stream),
		app:        strings.TrimSpace(app),
		subAppl:    strings.TrimSpace(subAppl),
		configPath: strings.TrimSpace(configPath),
	}
	switch {
	case r.stream == "":
		return RefMap{}, &ConfigurationError{Reason: "stream is required"}
	case r.app == "":
		return RefMap{}, &ConfigurationError{Reason: "application is required"}
	}
	return r, nil
}

// Stream is the ISPW stream name.
func (r RefMap) Stream() string { return r.stream }

// App is the ISPW application name.
func (r RefMap) App() string { return r.app }

// SubAppl is the ISPW sub-application name. Empty when not configured.
func (r RefMap) SubAppl() string { return r.subAppl }

// ConfigPath overrides the location of the ispwconfig.yml file. Empty
// when not configured.
func (r RefMap) ConfigPath() string { return r.configPath }

// IsZero reports whether r is the zero RefMap.
func (r RefMap) IsZero() bool { return r == RefMap{} }

// String renders r in the right-hand side format of a mapping record,
// STREAM/APP[/SUBAPPL[/CONFIGPATH]].
func (r RefMap) String() string {
	fields := []string{r.stream, r.app}
	switch {
	case r.configPath != "":
		fields = append(fields, r.subAppl, r.configPath)
	case r.subAppl != "":
		fields = append(fields, r.subAppl)
	}
	return strings.Join(fields, fieldSep)
}
