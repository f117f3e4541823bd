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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    Version
		wantErr error
	}{
		{in: "1", want: Version{Major: 1, Precision: 1}},
		{in: "v1.2", want: Version{Major: 1, Minor: 2, Precision: 2}},
		{in: "1.4.2", want: Version{Major: 1, Minor: 4, Patch: 2, Precision: 3}},
		{in: " 2.0.1-SNAPSHOT ", want: Version{Major: 2, Patch: 1, Precision: 3, Extras: "-SNAPSHOT"}},
		{in: "3.1+build.7", want: Version{Major: 3, Minor: 1, Precision: 2, Extras: "+build.7"}},
		{in: "", wantErr: ErrEmptyVersion},
		{in: "1.2.3.4", wantErr: ErrTooManyComponents},
		{in: "1..2", wantErr: ErrNonNumeric},
		{in: "-1", wantErr: ErrNonNumeric},
		{in: "2024.Q1", wantErr: ErrNonNumeric},
		{in: "1.+2", wantErr: ErrNonNumeric},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestVersion_String(t *testing.T) {
	assert.Equal(t, "1", Version{Major: 1, Precision: 1}.String())
	assert.Equal(t, "1.2", Version{Major: 1, Minor: 2, Precision: 2}.String())
	assert.Equal(t, "1.2.3", Version{Major: 1, Minor: 2, Patch: 3, Precision: 3, Extras: "-rc1"}.String())
}
