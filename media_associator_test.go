package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupImgDir(t *testing.T, names ...string) string {
	imgDir := filepath.Join(t.TempDir(), "img")
	require.NoError(t, os.MkdirAll(imgDir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(imgDir, name), []byte("x"), 0644))
	}
	return imgDir
}

func TestMediaAssociator_ExactIDSegment(t *testing.T) {
	imgDir := setupImgDir(t, "123_1.jpg", "123_2.png", "1234_1.jpg", "12_1.jpg")

	associator, err := NewMediaAssociator(imgDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"123_1.jpg", "123_2.png"}, associator.MediaFilesFor(123))
	assert.Equal(t, []string{"1234_1.jpg"}, associator.MediaFilesFor(1234))
	assert.Equal(t, []string{"12_1.jpg"}, associator.MediaFilesFor(12))
}

func TestMediaAssociator_NoMedia(t *testing.T) {
	imgDir := setupImgDir(t, "999_1.jpg")

	associator, err := NewMediaAssociator(imgDir)
	require.NoError(t, err)

	assert.Empty(t, associator.MediaFilesFor(123))
}

func TestMediaAssociator_MissingDirectory(t *testing.T) {
	associator, err := NewMediaAssociator(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)

	assert.Empty(t, associator.MediaFilesFor(123))
}

func TestMediaAssociator_IgnoresNonMediaNames(t *testing.T) {
	imgDir := setupImgDir(t, "notes.txt", "readme", "abc_1.jpg", "55_1.mp4")

	associator, err := NewMediaAssociator(imgDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"55_1.mp4"}, associator.MediaFilesFor(55))
}

func TestMediaAssociator_SortedOrder(t *testing.T) {
	imgDir := setupImgDir(t, "7_3.jpg", "7_1.jpg", "7_2.jpg")

	associator, err := NewMediaAssociator(imgDir)
	require.NoError(t, err)

	assert.Equal(t, []string{"7_1.jpg", "7_2.jpg", "7_3.jpg"}, associator.MediaFilesFor(7))
}

func TestClassifyFileType(t *testing.T) {
	assert.Equal(t, FILE_TYPE_IMAGE, ClassifyFileType("1_1.jpg"))
	assert.Equal(t, FILE_TYPE_IMAGE, ClassifyFileType("1_1.PNG"))
	assert.Equal(t, FILE_TYPE_VIDEO, ClassifyFileType("1_1.mp4"))
	assert.Equal(t, FILE_TYPE_VIDEO, ClassifyFileType("1_1.webm"))
	assert.Equal(t, FILE_TYPE_OTHER, ClassifyFileType("1_1.pdf"))
	assert.Equal(t, FILE_TYPE_OTHER, ClassifyFileType("1_1"))
}
