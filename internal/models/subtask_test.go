package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubTaskValidate(t *testing.T) {
	t.Run("rejects empty id", func(t *testing.T) {
		s := SubTask{Description: "x"}
		require.Error(t, s.Validate())
	})

	t.Run("rejects parallelizable with deps", func(t *testing.T) {
		s := SubTask{ID: "a", DependsOn: []string{"b"}, Parallelizable: true}
		err := s.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parallelizable")
	})

	t.Run("rejects self dependency", func(t *testing.T) {
		s := SubTask{ID: "a", DependsOn: []string{"a"}}
		require.Error(t, s.Validate())
	})

	t.Run("rejects duplicate dependency", func(t *testing.T) {
		s := SubTask{ID: "a", DependsOn: []string{"b", "b"}}
		require.Error(t, s.Validate())
	})

	t.Run("accepts valid subtask", func(t *testing.T) {
		s := SubTask{ID: "a", Description: "d", DependsOn: []string{"b"}}
		require.NoError(t, s.Validate())
	})

	t.Run("accepts parallelizable leaf", func(t *testing.T) {
		s := SubTask{ID: "a", Description: "d", Parallelizable: true}
		require.NoError(t, s.Validate())
	})
}
