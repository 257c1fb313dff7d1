package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLabel(t *testing.T) {
	assert.Equal(t, "隆鼻术", Label("Rhinoplasty", "zh"))
	assert.Equal(t, "Visage", Label("Face", "fr"))
	assert.Equal(t, "Rhinoplasty", Label("Rhinoplasty", "en"))
}

func TestLabel_SilentFallback(t *testing.T) {
	assert.Equal(t, "Thread Lift", Label("Thread Lift", "zh"))
	assert.Equal(t, "Rhinoplasty", Label("Rhinoplasty", "pt"))
}
