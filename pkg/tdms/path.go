// Copyright 2025 ohmycaptainnemo
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package tdms

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// RootPath is the object path of the file object
const RootPath = "/"

// GroupPath builds the object path of a group
func GroupPath(group string) string {
	return "/'" + escapeName(group) + "'"
}

// ChannelPath builds the object path of a channel inside a group
func ChannelPath(group, channel string) string {
	return GroupPath(group) + "/'" + escapeName(channel) + "'"
}

func escapeName(name string) string {
	return strings.ReplaceAll(name, "'", "''")
}

// 🔍 ParsePath splits an object path into its unescaped components.
// The root path yields no components, a group path one, a channel path two.
func ParsePath(path string) ([]string, error) {
	if path == RootPath {
		return nil, nil
	}

	var parts []string
	i := 0
	for i < len(path) {
		if path[i] != '/' {
			return nil, errors.Errorf("%w: object path %q: expected '/' at offset %d", ErrMalformed, path, i)
		}
		i++
		if i >= len(path) || path[i] != '\'' {
			return nil, errors.Errorf("%w: object path %q: expected quote at offset %d", ErrMalformed, path, i)
		}
		i++

		var name strings.Builder
		closed := false
		for i < len(path) {
			c := path[i]
			if c == '\'' {
				if i+1 < len(path) && path[i+1] == '\'' {
					name.WriteByte('\'')
					i += 2
					continue
				}
				i++
				closed = true
				break
			}
			name.WriteByte(c)
			i++
		}
		if !closed {
			return nil, errors.Errorf("%w: object path %q: unterminated name", ErrMalformed, path)
		}
		parts = append(parts, name.String())
	}

	if len(parts) > 2 {
		return nil, errors.Errorf("%w: object path %q: too many components", ErrMalformed, path)
	}
	return parts, nil
}
