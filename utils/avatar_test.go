package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholderAvatarURL(t *testing.T) {
	url := PlaceholderAvatarURL("jane doe")
	assert.Contains(t, url, "ui-avatars.com")
	assert.Contains(t, url, "name=jane+doe")
	assert.Contains(t, url, "format=svg")
}
