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
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrMalformed marks structural damage in a TDMS file
	ErrMalformed = errors.Base("malformed tdms file")

	// ErrUnsupported marks valid TDMS features this reader does not decode
	ErrUnsupported = errors.Base("unsupported tdms feature")
)
