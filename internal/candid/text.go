// Copyright (c) 2026 dotandev
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

package candid

import (
	"strings"
	"unicode"
)

// StripComments removes every //-to-end-of-line span and every /* ... */
// span from interface source text. All other characters, including newlines
// terminating line comments, are preserved so positions stay meaningful.
// Nested block comments are not supported.
func StripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))

	i, n := 0, len(src)
	for i < n {
		if i+1 < n && src[i] == '/' && src[i+1] == '/' {
			for i < n && src[i] != '\n' {
				i++
			}
			continue
		}
		if i+1 < n && src[i] == '/' && src[i+1] == '*' {
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				// Unterminated block comment swallows the rest.
				break
			}
			i += 2 + end + 2
			continue
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}

// Blocks returns the inner text of every top-level `keyword { ... }`
// occurrence in src, with nested braces balanced. A keyword occurrence not
// followed by `{` (after optional whitespace) is skipped. Unbalanced braces
// silently truncate the result rather than erroring; callers must tolerate
// a short list.
func Blocks(src, keyword string) []string {
	var out []string

	i, n := 0, len(src)
	for i < n {
		j := strings.Index(src[i:], keyword)
		if j < 0 {
			break
		}
		j += i

		k := j + len(keyword)
		for k < n && unicode.IsSpace(rune(src[k])) {
			k++
		}
		if k >= n || src[k] != '{' {
			i = j + 1
			continue
		}

		depth := 0
		start := k + 1
		k++
		closed := false
		for k < n {
			switch src[k] {
			case '{':
				depth++
			case '}':
				if depth == 0 {
					out = append(out, src[start:k])
					i = k + 1
					closed = true
				} else {
					depth--
				}
			}
			if closed {
				break
			}
			k++
		}
		if !closed {
			break
		}
	}
	return out
}
