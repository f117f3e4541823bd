// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package graph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidItem is returned by Put for items without an ID.
var ErrInvalidItem = errors.New("item id cannot be empty")

// DanglingReferenceError is returned by Link when a relation endpoint is not
// registered in the store.
type DanglingReferenceError struct {
	From    string
	To      string
	Label   string
	Missing []string
}

// Error implements the error interface.
func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("dangling reference %q -[%s]-> %q: unknown item(s) %s",
		e.From, e.Label, e.To, strings.Join(e.Missing, ", "))
}
