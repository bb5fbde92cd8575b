/*
 * Classgen - function-level code generation for a managed stack machine
 *
 * Copyright Flow Foundation
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package orderedmap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStop = errors.New("stop")

func TestOrderedMapInsertionOrder(t *testing.T) {

	t.Parallel()

	om := &OrderedMap[string, int]{}

	_, present := om.Set("c", 1)
	require.False(t, present)
	om.Set("a", 2)
	om.Set("b", 3)

	old, present := om.Set("c", 4)
	require.True(t, present)
	assert.Equal(t, 1, old)

	var keys []string
	om.Foreach(func(key string, _ int) {
		keys = append(keys, key)
	})

	assert.Equal(t, []string{"c", "a", "b"}, keys)
	assert.Equal(t, []int{4, 2, 3}, om.Values())
	assert.Equal(t, 3, om.Len())
}

func TestOrderedMapZeroValue(t *testing.T) {

	t.Parallel()

	var om OrderedMap[int, string]

	_, ok := om.Get(1)
	assert.False(t, ok)
	assert.False(t, om.Contains(1))
	assert.Equal(t, 0, om.Len())
	assert.Empty(t, om.Values())

	created := New[OrderedMap[int, string]](4)
	created.Set(1, "one")
	value, ok := created.Get(1)
	require.True(t, ok)
	assert.Equal(t, "one", value)
}

func TestOrderedMapForeachWithError(t *testing.T) {

	t.Parallel()

	om := &OrderedMap[string, int]{}
	om.Set("a", 1)
	om.Set("b", 2)
	om.Set("c", 3)

	var visited []string
	err := om.ForeachWithError(func(key string, value int) error {
		visited = append(visited, key)
		if value == 2 {
			return errStop
		}
		return nil
	})
	require.ErrorIs(t, err, errStop)
	assert.Equal(t, []string{"a", "b"}, visited)

	visited = nil
	require.NoError(t, om.ForeachWithError(func(key string, _ int) error {
		visited = append(visited, key)
		return nil
	}))
	assert.Equal(t, []string{"a", "b", "c"}, visited)
}
