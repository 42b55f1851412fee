package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFile(t *testing.T) {
	f, err := NewFile("/p", "/p/assets", "/p/assets/js/app.js")

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, f.ID)
	assert.Equal(t, "js/app.js", f.Relative())
	assert.False(t, f.HasSources())
}

func TestFile_HasSources(t *testing.T) {
	var nilFile *File
	assert.False(t, nilFile.HasSources())
	assert.False(t, (&File{SourceMap: &SourceMap{}}).HasSources())
	assert.True(t, (&File{SourceMap: &SourceMap{Sources: []string{}}}).HasSources())
}

func TestFile_Relative(t *testing.T) {
	assert.Equal(t, "/other/app.js", (&File{Base: "/p", Path: "/other/app.js"}).Relative())
	assert.Equal(t, "/p/app.js", (&File{Path: "/p/app.js"}).Relative())
	assert.Equal(t, "app.js", (&File{Base: `C:\p`, Path: `C:\p\app.js`}).Relative())
}

func TestFile_EnsureID(t *testing.T) {
	f := &File{Path: "/a.js"}
	require.NoError(t, f.EnsureID())
	id := f.ID
	assert.NotEqual(t, uuid.Nil, id)

	require.NoError(t, f.EnsureID())
	assert.Equal(t, id, f.ID)
}
