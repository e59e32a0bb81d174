package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidScore(t *testing.T) {
	for score := MinScore; score <= MaxScore; score++ {
		assert.True(t, IsValidScore(score), "score %d", score)
	}

	assert.False(t, IsValidScore(0))
	assert.False(t, IsValidScore(6))
	assert.False(t, IsValidScore(-1))
}
