package formats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pandochost/internal/domain/models"
)

func TestNewRegistry_DefaultClasses(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	tests := []struct {
		format string
		want   models.FormatClass
	}{
		{"pdf", models.FormatClassFile},
		{"docx", models.FormatClassFile},
		{"epub", models.FormatClassFile},
		{"odt", models.FormatClassFile},
		{"pptx", models.FormatClassFile},
		{"epub2", models.FormatClassFile},
		{"epub3", models.FormatClassFile},
		{"PDF", models.FormatClassFile},
		{"html", models.FormatClassText},
		{"markdown", models.FormatClassText},
		{"rst", models.FormatClassText},
		{"latex", models.FormatClassText},
		{"plain", models.FormatClassText},
		{"never-heard-of-it", models.FormatClassText},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Class(tt.format))
		})
	}
}

func TestRegistry_Extension(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, "pdf", r.Extension("pdf"))
	assert.Equal(t, "tex", r.Extension("latex"))
	assert.Equal(t, "md", r.Extension("markdown"))
	assert.Equal(t, "epub", r.Extension("epub2"))
	assert.Equal(t, "epub", r.Extension("epub3"))
	assert.Equal(t, "odp", r.Extension("odp"), "unknown formats fall back to their name")
}

func TestRegistry_LoadFileOverrides(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "formats.yaml")
	content := `formats:
  odp:
    class: file
    extension: .odp
  latex:
    class: file
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	require.NoError(t, r.LoadFile(path))

	assert.Equal(t, models.FormatClassFile, r.Class("odp"))
	assert.Equal(t, "odp", r.Extension("odp"))
	assert.Equal(t, models.FormatClassFile, r.Class("latex"))
	assert.Equal(t, "latex", r.Extension("latex"), "missing extension defaults to the format name")
	// Untouched defaults survive the merge.
	assert.Equal(t, models.FormatClassFile, r.Class("pdf"))
}

func TestRegistry_LoadFileRejectsUnknownClass(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "formats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("formats:\n  odp:\n    class: binary\n"), 0o644))

	err = r.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown class")
}

func TestRegistry_LoadFileMissing(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Error(t, r.LoadFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestRegistry_ListSorted(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	list := r.List()
	require.NotEmpty(t, list)
	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].Name, list[i].Name)
	}
}

func TestRegistry_ExtensionModifiers(t *testing.T) {
	r, err := NewRegistry()
	require.NoError(t, err)

	assert.Equal(t, models.FormatClassFile, r.Class("docx+native_numbering"))
	assert.Equal(t, "docx", r.Extension("docx+native_numbering"))
	assert.Equal(t, models.FormatClassText, r.Class("markdown-smart"))
	assert.Equal(t, "md", r.Extension("markdown-smart"))
}
