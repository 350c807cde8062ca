package polyglot

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// BuildOptions configures a single Build invocation.
type BuildOptions struct {
	ImagePath string
	ZipPath   string
	OutputDir string
	Prompt    ArgPrompter
}

// Build runs the full polyglot pipeline described in spec.md §2: load and
// validate the cover image, load and frame the ZIP archive, compose the
// extraction script for the archive's first entry, splice everything
// together, fix the embedded ZIP's offsets, and write the result to disk.
// It returns the path of the written file.
func Build(logger hclog.Logger, opts BuildOptions) (string, error) {
	imageData, err := readFileChecked(opts.ImagePath, MinImageSize)
	if err != nil {
		return "", err
	}
	zipData, err := readFileChecked(opts.ZipPath, MinZipSize)
	if err != nil {
		return "", err
	}
	if len(imageData)+len(zipData) > MaxFileSize {
		return "", newErr(CategorySizeBounds, "combined size of cover image and ZIP archive exceeds the supported limit")
	}

	logger.Info("loaded inputs", "image", opts.ImagePath, "image_size", len(imageData), "zip", opts.ZipPath, "zip_size", len(zipData))

	pruned, _, err := NormalizePNG(logger, imageData)
	if err != nil {
		return "", err
	}

	framedZip, err := FrameZIP(logger, zipData)
	if err != nil {
		return "", err
	}

	script, err := ComposeScript(logger, framedZip, opts.Prompt)
	if err != nil {
		return "", err
	}

	combined, err := Assemble(logger, pruned, script, framedZip)
	if err != nil {
		return "", err
	}
	if len(combined) > MaxFileSize {
		return "", newErr(CategorySizeBounds, "polyglot image exceeds the supported size limit")
	}

	return WriteOut(logger, opts.OutputDir, combined)
}

func readFileChecked(path string, minSize int) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newErr(CategoryIOOpen, "unable to open %s: %v", path, err)
	}
	if len(data) < minSize {
		return nil, newErr(CategorySizeBounds, "%s is too small to be a valid input (minimum %d bytes)", path, minSize)
	}
	return data, nil
}
