package rules

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brianly1003/autosort/internal/domain"
)

func TestNormalizeExtensions(t *testing.T) {
	got := NormalizeExtensions([]string{"PDF", ".Doc", " .txt ", "", ".", ".pdf", "md"})
	assert.Equal(t, []string{".pdf", ".doc", ".txt", ".md"}, got)
}

func TestNewRuleSetCopiesInput(t *testing.T) {
	in := []Rule{{Extensions: []string{".jpg"}, Category: "Images"}}
	rs := NewRuleSet(in, "/out")

	in[0].Extensions[0] = ".png"
	in[0].Category = "Changed"

	out := rs.Rules()
	require.Len(t, out, 1)
	assert.Equal(t, []string{".jpg"}, out[0].Extensions)
	assert.Equal(t, "Images", out[0].Category)

	out[0].Extensions[0] = ".gif"
	assert.Equal(t, []string{".jpg"}, rs.Rules()[0].Extensions, "Rules() must return a copy")
}

func TestClassifySingleRuleRegardlessOfOrder(t *testing.T) {
	docs := Rule{Extensions: []string{".pdf"}, Category: "Documents"}
	imgs := Rule{Extensions: []string{".png"}, Category: "Images"}
	zips := Rule{Extensions: []string{".zip"}, TargetFolder: "/archive", Category: "Zip"}

	orders := [][]Rule{
		{docs, imgs, zips},
		{zips, docs, imgs},
		{imgs, zips, docs},
	}

	for _, order := range orders {
		rs := NewRuleSet(order, "/out")

		dest, err := Classify(".pdf", rs)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("/out", "Documents"), dest.Folder)
		assert.Equal(t, "Documents", dest.Category)
		assert.True(t, dest.Matched)

		dest, err = Classify(".zip", rs)
		require.NoError(t, err)
		assert.Equal(t, "/archive", dest.Folder)
		assert.Equal(t, "Zip", dest.Category)
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	rs := NewRuleSet([]Rule{
		{Extensions: []string{".x"}, Category: "A"},
		{Extensions: []string{".x"}, Category: "B"},
	}, "/out")

	dest, err := Classify(".x", rs)
	require.NoError(t, err)
	assert.Equal(t, "A", dest.Category)
	assert.Equal(t, filepath.Join("/out", "A"), dest.Folder)
}

func TestClassifyCaseInsensitive(t *testing.T) {
	rs := NewRuleSet([]Rule{{Extensions: []string{".JPG"}, Category: "Images"}}, "/out")

	dest, err := ClassifyPath("/in/Holiday.JpG", rs)
	require.NoError(t, err)
	assert.Equal(t, "Images", dest.Category)
}

func TestClassifyFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		rules        []Rule
		def          string
		ext          string
		wantFolder   string
		wantCategory string
		wantErr      bool
	}{
		{
			name:         "no rule uses extension folder",
			def:          "/out",
			ext:          ".iso",
			wantFolder:   filepath.Join("/out", "iso"),
			wantCategory: "iso",
		},
		{
			name:         "no extension uses other",
			def:          "/out",
			ext:          "",
			wantFolder:   filepath.Join("/out", "other"),
			wantCategory: "other",
		},
		{
			name:    "no rule and no default",
			ext:     ".iso",
			wantErr: true,
		},
		{
			name:    "matched rule without target and no default",
			rules:   []Rule{{Extensions: []string{".pdf"}, Category: "Documents"}},
			ext:     ".pdf",
			wantErr: true,
		},
		{
			name:         "matched rule with explicit target ignores default",
			rules:        []Rule{{Extensions: []string{".pdf"}, TargetFolder: "/docs", Category: "Documents"}},
			ext:          ".pdf",
			wantFolder:   "/docs",
			wantCategory: "Documents",
		},
		{
			name:         "matched rule without category falls back to extension",
			rules:        []Rule{{Extensions: []string{".pdf"}}},
			def:          "/out",
			ext:          ".pdf",
			wantFolder:   filepath.Join("/out", "pdf"),
			wantCategory: "pdf",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dest, err := Classify(tt.ext, NewRuleSet(tt.rules, tt.def))
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrClassificationUnresolved)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFolder, dest.Folder)
			assert.Equal(t, tt.wantCategory, dest.Category)
		})
	}
}

func TestClassifyNilRuleSet(t *testing.T) {
	_, err := Classify(".pdf", nil)
	assert.ErrorIs(t, err, domain.ErrClassificationUnresolved)
}

func TestExtensionOf(t *testing.T) {
	assert.Equal(t, ".pdf", ExtensionOf("/in/Report.PDF"))
	assert.Equal(t, "", ExtensionOf("/in/README"))
	assert.Equal(t, ".gz", ExtensionOf("/in/backup.tar.gz"))
}
