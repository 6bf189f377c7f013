// Copyright 2021 The httpsvc Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

func TestJSON(t *testing.T) {
	t.Run("Marshal", func(t *testing.T) {
		b, err := JSON.Marshal(person{Name: "Viktor", Age: 30})
		require.NoError(t, err)
		assert.Equal(t, `{"name":"Viktor","age":30}`, string(b))
		_, err = JSON.Marshal(func() {})
		assert.Error(t, err)
	})
	t.Run("Unmarshal", func(t *testing.T) {
		var p person
		require.NoError(t, JSON.Unmarshal([]byte(`{"name":"Ada","age":36}`), &p))
		assert.Equal(t, person{Name: "Ada", Age: 36}, p)
		assert.Error(t, JSON.Unmarshal([]byte(`{"name":`), &p))
		assert.Error(t, JSON.Unmarshal([]byte(`[1,2]`), &p))
	})
	t.Run("empty body", func(t *testing.T) {
		var p person
		assert.ErrorIs(t, JSON.Unmarshal(nil, &p), ErrEmptyBody)
		assert.ErrorIs(t, JSON.Unmarshal([]byte(" \n"), &p), ErrEmptyBody)
	})
	t.Run("raw bytes", func(t *testing.T) {
		var b []byte
		require.NoError(t, JSON.Unmarshal([]byte("not json"), &b))
		assert.Equal(t, "not json", string(b))
	})
	t.Run("string", func(t *testing.T) {
		var s string
		require.NoError(t, JSON.Unmarshal([]byte(`"ok"`), &s))
		assert.Equal(t, "ok", s)
		assert.Error(t, JSON.Unmarshal([]byte("not json"), &s))
		assert.ErrorIs(t, JSON.Unmarshal(nil, &s), ErrEmptyBody)
	})
}
