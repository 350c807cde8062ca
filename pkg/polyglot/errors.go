package polyglot

import "fmt"

// Category identifies one of the error kinds a build can fail with. The
// CLI prints "<Category>: <cause>" and exits with status 1 whatever the
// category; callers in library code should prefer errors.As over string
// matching.
type Category string

const (
	// CategoryInvalidArgs covers wrong arity, bad file extension, or
	// illegal characters in a file path argument.
	CategoryInvalidArgs Category = "InvalidArgs"
	// CategoryIOOpen covers a cover image or zip file that cannot be
	// opened/read.
	CategoryIOOpen Category = "IOOpen"
	// CategorySizeBounds covers any of the size limits in spec.md §3.
	CategorySizeBounds Category = "SizeBounds"
	// CategoryPngShape covers bad signatures, unsupported color type,
	// out-of-range dimensions, or a forbidden byte in the IHDR range.
	CategoryPngShape Category = "PngShape"
	// CategoryPngIntegrity covers a first-IDAT CRC mismatch.
	CategoryPngIntegrity Category = "PngIntegrity"
	// CategoryPngStructure covers a missing PLTE chunk on an
	// indexed-color image.
	CategoryPngStructure Category = "PngStructure"
	// CategoryZipShape covers a bad ZIP signature or an
	// undersized first-entry filename.
	CategoryZipShape Category = "ZipShape"
	// CategoryIOWrite covers an output file that cannot be written.
	CategoryIOWrite Category = "IOWrite"
)

// BuildError is the single error type this package returns. It carries a
// Category so callers can switch on failure kind without parsing strings.
type BuildError struct {
	Cat   Category
	Cause string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %s", e.Cat, e.Cause)
}

// Category returns the error's category.
func (e *BuildError) Category() Category {
	return e.Cat
}

func newErr(cat Category, format string, args ...any) *BuildError {
	return &BuildError{Cat: cat, Cause: fmt.Sprintf(format, args...)}
}
