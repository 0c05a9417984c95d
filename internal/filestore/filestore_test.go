package filestore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swarmfeedback/internal/config"
	apperrors "swarmfeedback/internal/errors"
)

func TestObjectName(t *testing.T) {
	name, err := ObjectName("report.pdf")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "_report.pdf"))
	assert.Len(t, name, 36+1+len("report.pdf"))

	name, err = ObjectName(`C:\docs\slides.pptx`)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, "_slides.pptx"))

	_, err = ObjectName("../../etc/passwd")
	assert.ErrorIs(t, err, apperrors.ErrInvalidFileName)
}

func TestValidName(t *testing.T) {
	assert.True(t, ValidName("abc_file.txt"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("../x"))
	assert.False(t, ValidName("a/b"))
}

func TestLocalStore_SaveAndOpen(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "x_notes.txt", strings.NewReader("hello"), 5, "text/plain"))

	obj, err := s.Open(ctx, "x_notes.txt")
	require.NoError(t, err)
	defer obj.Body.Close()
	body, err := io.ReadAll(obj.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))
	assert.Equal(t, int64(5), obj.Size)
	assert.Contains(t, obj.ContentType, "text/plain")

	_, err = s.Open(ctx, "missing.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Open(ctx, "../x_notes.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewMinIOStore_RequiresCredentials(t *testing.T) {
	_, err := NewMinIOStore(config.MinIOConfig{})
	assert.Error(t, err)

	_, err = NewMinIOStore(config.MinIOConfig{Endpoint: "localhost:9000"})
	assert.Error(t, err)

	s, err := NewMinIOStore(config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"})
	require.NoError(t, err)
	assert.Equal(t, "swarm-uploads", s.bucket)
}
