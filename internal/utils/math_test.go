package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(30, Clamp(10, 30, 300))
	assert.Equal(300, Clamp(900, 30, 300))
	assert.Equal(120, Clamp(120, 30, 300))
	assert.Equal(0.0, Clamp(-0.5, 0.0, 1.0))
	assert.Equal(1.0, Clamp(1.5, 0.0, 1.0))
}

func TestAbs(t *testing.T) {
	assert.Equal(t, 3, Abs(-3))
	assert.Equal(t, 2.5, Abs(2.5))
}

func TestContains(t *testing.T) {
	assert.True(t, Contains([]int{1, 2, 4}, 4))
	assert.False(t, Contains([]int{1, 2, 4}, 3))
}

func TestIndexOf(t *testing.T) {
	assert.Equal(t, 1, IndexOf([]string{"C2", "C#2"}, "C#2"))
	assert.Equal(t, -1, IndexOf([]string{"C2"}, "A2"))
}
