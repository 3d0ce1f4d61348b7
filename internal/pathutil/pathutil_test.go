package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSplitExt(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantStem string
		wantExt  string
	}{
		{name: "simple", in: "report.pdf", wantStem: "report", wantExt: ".pdf"},
		{name: "double extension", in: "backup.tar.gz", wantStem: "backup.tar", wantExt: ".gz"},
		{name: "dotfile", in: ".bashrc", wantStem: ".bashrc", wantExt: ""},
		{name: "dotfile with extension", in: ".config.yaml", wantStem: ".config", wantExt: ".yaml"},
		{name: "no extension", in: "README", wantStem: "README", wantExt: ""},
		{name: "trailing dot", in: "odd.", wantStem: "odd", wantExt: "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stem, ext := SplitExt(tt.in)
			if stem != tt.wantStem || ext != tt.wantExt {
				t.Errorf("SplitExt(%q) = (%q, %q), want (%q, %q)", tt.in, stem, ext, tt.wantStem, tt.wantExt)
			}
		})
	}
}

func TestIsExistingDir(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if !IsExistingDir(dir) {
		t.Errorf("IsExistingDir(%q) = false, want true", dir)
	}
	if IsExistingDir(file) {
		t.Errorf("IsExistingDir(%q) = true, want false", file)
	}
	if IsExistingDir(filepath.Join(dir, "missing")) {
		t.Error("IsExistingDir(missing) = true, want false")
	}
	if IsExistingDir("  ") {
		t.Error("IsExistingDir(blank) = true, want false")
	}
}

func TestSameDir(t *testing.T) {
	dir := t.TempDir()
	other := t.TempDir()

	if !SameDir(dir, dir+string(filepath.Separator)) {
		t.Error("SameDir with trailing separator = false, want true")
	}
	if !SameDir(dir, filepath.Join(dir, "sub", "..")) {
		t.Error("SameDir with dot-dot = false, want true")
	}
	if SameDir(dir, other) {
		t.Error("SameDir(different) = true, want false")
	}
	if SameDir(dir, "") {
		t.Error("SameDir(empty) = true, want false")
	}
}
