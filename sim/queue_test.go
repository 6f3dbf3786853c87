package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelQueue_OrdersByLevelThenRegistration(t *testing.T) {
	// GIVEN items pushed out of level order
	var q LevelQueue[string]
	q.Push(2, "c")
	q.Push(0, "a")
	q.Push(2, "d")
	q.Push(-1, "z")
	q.Push(0, "b")

	// THEN levels are ascending and each level keeps registration order
	assert.Equal(t, []int{-1, 0, 2}, q.Levels())
	assert.Equal(t, []string{"a", "b"}, q.At(0))
	assert.Equal(t, []string{"c", "d"}, q.At(2))
	assert.Equal(t, 5, q.Len())
}

func TestLevelQueue_UnknownLevelIsEmpty(t *testing.T) {
	var q LevelQueue[int]
	assert.Empty(t, q.At(7))
	assert.Empty(t, q.Levels())
	q.Push(1, 10)
	assert.Empty(t, q.At(7))
}

func TestMergeLevels(t *testing.T) {
	assert.Equal(t, []int{-1, 0, 3}, MergeLevels([]int{3, 0}, nil, []int{0, -1}))
	assert.Empty(t, MergeLevels())
}
