// This file is part of phoron - https://github.com/phoronlang/phoron
//
// Copyright 2026 The Phoron Authors.
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

package descriptor_test

import (
	"testing"

	"github.com/phoronlang/phoron/internal/descriptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrayOfArrayOfArrayOfDouble(t *testing.T) {
	f, err := descriptor.ParseField("[[[D")
	require.NoError(t, err)
	assert.Equal(t, descriptor.KindArray, f.Kind)
	assert.Equal(t, "[[[D", f.String())
}

func TestObjectType(t *testing.T) {
	f, err := descriptor.ParseField("Ljava/lang/String;")
	require.NoError(t, err)
	assert.Equal(t, descriptor.KindObject, f.Kind)
	assert.Equal(t, "java/lang/String", f.ClassName)
	assert.Equal(t, "Ljava/lang/String;", f.String())
}

func TestMissingSemicolonIsMalformed(t *testing.T) {
	_, err := descriptor.ParseField("Ljava/lang/String")
	require.Error(t, err)
}

func TestMethodDescriptorRoundTrip(t *testing.T) {
	m, err := descriptor.ParseMethod("([Ljava/lang/String;)V")
	require.NoError(t, err)
	require.Len(t, m.Params, 1)
	assert.Equal(t, descriptor.KindArray, m.Params[0].Kind)
	assert.True(t, m.Return.Void)
	assert.Equal(t, "([Ljava/lang/String;)V", m.String())
}

func TestMethodDescriptorMultipleParams(t *testing.T) {
	m, err := descriptor.ParseMethod("(IDLjava/lang/String;)Z")
	require.NoError(t, err)
	require.Len(t, m.Params, 3)
	assert.Equal(t, descriptor.Int, m.Params[0].Base)
	assert.Equal(t, descriptor.Double, m.Params[1].Base)
	assert.Equal(t, descriptor.KindObject, m.Params[2].Kind)
	assert.False(t, m.Return.Void)
	assert.Equal(t, descriptor.Boolean, m.Return.Field.Base)
}

func TestEveryBaseTypeRoundTrips(t *testing.T) {
	for _, c := range "BCDFIJSZ" {
		f, err := descriptor.ParseField(string(c))
		require.NoError(t, err)
		assert.Equal(t, string(c), f.String())
	}
}
