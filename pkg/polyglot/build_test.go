package polyglot

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestBuild_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "cover.png")
	pngData := buildTestPNG(100, 100, ColorTypeTruecolor, nil, [][]byte{bytes.Repeat([]byte{1, 2, 3, 4, 5}, 3)}, nil)
	if err := os.WriteFile(pngPath, pngData, 0o644); err != nil {
		t.Fatalf("writing fixture PNG: %v", err)
	}

	zipPath := filepath.Join(dir, "payload.zip")
	zipData := buildTestZIP("clip.mp4", []byte("hello world, this is the payload"))
	if err := os.WriteFile(zipPath, zipData, 0o644); err != nil {
		t.Fatalf("writing fixture ZIP: %v", err)
	}

	outDir := filepath.Join(dir, "out")
	if err := os.Mkdir(outDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	outPath, err := Build(testLogger(), BuildOptions{
		ImagePath: pngPath,
		ZipPath:   zipPath,
		OutputDir: outDir,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading build output: %v", err)
	}
	if !bytes.Equal(out[:len(pngSignature)], pngSignature) {
		t.Error("build output does not start with the PNG signature")
	}
	if !bytes.Contains(out, zipEndCentralDirSig) {
		t.Error("build output does not contain a ZIP end-of-central-directory record")
	}
}

func TestBuild_RejectsUndersizedZip(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "cover.png")
	pngData := buildTestPNG(100, 100, ColorTypeTruecolor, nil, [][]byte{bytes.Repeat([]byte{1, 2, 3}, 4)}, nil)
	if err := os.WriteFile(pngPath, pngData, 0o644); err != nil {
		t.Fatalf("writing fixture PNG: %v", err)
	}

	zipPath := filepath.Join(dir, "tiny.zip")
	if err := os.WriteFile(zipPath, []byte("too small"), 0o644); err != nil {
		t.Fatalf("writing fixture ZIP: %v", err)
	}

	_, err := Build(testLogger(), BuildOptions{ImagePath: pngPath, ZipPath: zipPath, OutputDir: dir})
	if err == nil {
		t.Fatal("expected error for undersized ZIP input")
	}
}
