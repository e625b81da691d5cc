package util

import (
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFileExists(t *testing.T) {
	filePath := path.Join(t.TempDir(), ".jeinwei8380243unt4u")
	file, err := os.OpenFile(filePath, os.O_RDONLY|os.O_CREATE, 0666)
	assert.Nil(t, err)
	file.Close()
	exists, err := Exists(filePath)
	assert.Nil(t, err)
	assert.True(t, exists)
	os.Remove(filePath)
	exists, err = Exists(filePath)
	assert.Nil(t, err)
	assert.False(t, exists)

	currBinary, err := os.Executable()
	assert.Nil(t, err)
	badPath := path.Join(currBinary, "non-existant-file")

	_, err = Exists(badPath)
	assert.NotNil(t, err)
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(path.Join(dir, "missing")))
}

func TestMinMax(t *testing.T) {
	large := 100
	small := -100
	assert.Equal(t, large, Max(large, small))
	assert.Equal(t, large, Max(small, large))
	assert.Equal(t, small, Min(large, small))
	assert.Equal(t, small, Min(small, large))
}

func TestStringInSlice(t *testing.T) {
	list := []string{"gridka_disk", "gridka_tape"}
	assert.True(t, StringInSlice("gridka_tape", list))
	assert.False(t, StringInSlice("gridka", list))
	assert.False(t, StringInSlice("gridka", nil))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1h0m0s", FormatDuration(time.Hour))
	assert.Equal(t, "2d1h0m0s", FormatDuration(49*time.Hour))
	assert.Equal(t, "1y1d0s", FormatDuration(366*24*time.Hour))
}
