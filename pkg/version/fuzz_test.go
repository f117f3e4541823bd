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

package version

import (
	"testing"
)

func FuzzParseVersion(f *testing.F) {
	for _, seed := range []string{"1", "v1.2", "1.2.3", "1.2.3-SNAPSHOT", "", ".", "1.", "vv1", "-1", "1.2.3.4", "a.b"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		v, err := ParseVersion(input)
		if err != nil {
			return
		}
		if v.Precision < 1 || v.Precision > 3 {
			t.Errorf("ParseVersion(%q) precision out of range: %d", input, v.Precision)
		}
		if v.Major < 0 || v.Minor < 0 || v.Patch < 0 {
			t.Errorf("ParseVersion(%q) negative component: %+v", input, v)
		}
		again, err := ParseVersion(v.String())
		if err != nil {
			t.Errorf("ParseVersion(%q) round trip failed: %v", v.String(), err)
			return
		}
		if again.Major != v.Major || again.Minor != v.Minor || again.Patch != v.Patch {
			t.Errorf("round trip mismatch: %+v vs %+v", v, again)
		}
	})
}
