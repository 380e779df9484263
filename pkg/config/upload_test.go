package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadContexts(t *testing.T) {
	avatar := UploadContexts[UploadAvatar]
	assert.True(t, avatar.Allows("photo.JPG"))
	assert.False(t, avatar.Allows("scan.pdf"))
	assert.False(t, avatar.Allows("noext"))
	assert.Equal(t, int64(5<<20), avatar.MaxBytes())

	appealFile := UploadContexts[UploadAppealFile]
	assert.True(t, appealFile.Allows("anything.bin"))
	assert.True(t, appealFile.Allows("noext"))
}
