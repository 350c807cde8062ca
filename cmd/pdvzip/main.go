// Command pdvzip builds a single PNG image that is simultaneously a valid
// ZIP archive and, once renamed to run as a script, a self-extracting
// launcher for the archive's first entry.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime/debug"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/cleasbycode/pdvzip-go/pkg/logging"
	"github.com/cleasbycode/pdvzip-go/pkg/polyglot"
	"github.com/cleasbycode/pdvzip-go/pkg/utils/shellparse"
)

const version = "2.0.0"

var pathPattern = regexp.MustCompile(`^[a-zA-Z0-9_./\\\s-]+$`)

var (
	logLevel    string
	outputDir   string
	infoFlag    bool
	versionFlag bool
	rootCmd     *cobra.Command
)

func getBuildTimestamp() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "pdvzip <cover_image> <zip_file>",
		Short: "Embed a ZIP archive and a self-extracting script into a PNG image",
		Long: "pdvzip embeds a ZIP archive into a PNG image's trailing IDAT chunk and a\n" +
			"cross-platform extraction script into the image's iCCP chunk, producing a\n" +
			"single file that is simultaneously a valid PNG, a valid ZIP, and (once\n" +
			"renamed to run as a script) a self-extracting launcher.",
		Args: cobra.MaximumNArgs(2),
		RunE: runBuild,
	}

	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory to write the output image into (default: current directory)")
	rootCmd.Flags().BoolVar(&infoFlag, "info", false, "Show detailed program information")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")
}

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		fmt.Printf("pdvzip %s\n", version)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("error: %v", err))
		os.Exit(1)
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	if versionFlag {
		fmt.Printf("pdvzip %s\n", version)
		fmt.Printf("Built: %s\n", getBuildTimestamp())
		return nil
	}
	if infoFlag {
		fmt.Print(infoText)
		return nil
	}

	if len(args) != 2 {
		cmd.Usage()
		return fmt.Errorf("expected exactly 2 arguments (cover image, ZIP archive), got %d", len(args))
	}

	imagePath, zipPath := args[0], args[1]
	if err := validatePath(imagePath, ".png"); err != nil {
		return err
	}
	if err := validatePath(zipPath, ".zip"); err != nil {
		return err
	}

	logger := logging.NewLogger("pdvzip", resolveLogLevel(), os.Stderr)

	outPath, err := polyglot.Build(logger, polyglot.BuildOptions{
		ImagePath: imagePath,
		ZipPath:   zipPath,
		OutputDir: outputDir,
		Prompt:    promptForArgs,
	})
	if err != nil {
		return err
	}

	fmt.Println(color.GreenString("Created polyglot image: %s", outPath))
	fmt.Println("Rename the extension to run it as a script on Linux or Windows, or keep the .png to share it as an image or open it as a ZIP archive.")
	return nil
}

func resolveLogLevel() string {
	if logLevel != "" {
		return logLevel
	}
	return logging.GetLogLevel()
}

func validatePath(path, wantExt string) error {
	if !pathPattern.MatchString(path) {
		return fmt.Errorf("%s: path %q contains characters outside the supported set", polyglot.CategoryInvalidArgs, path)
	}
	if ext := strings.ToLower(filepath.Ext(path)); ext != wantExt {
		return fmt.Errorf("%s: expected a %s file, got %q", polyglot.CategoryInvalidArgs, wantExt, path)
	}
	return nil
}

// promptForArgs asks the user, on standard input, for the
// arguments to pass the launched program on each platform. Entries that
// don't support launch arguments never invoke this. Each answer is
// shell-word-split purely to catch unclosed quotes before they end up
// embedded in the extraction script.
func promptForArgs() (linuxArgs, windowsArgs string) {
	reader := bufio.NewReader(os.Stdin)

	linuxArgs = promptOne(reader, "Linux")
	windowsArgs = promptOne(reader, "Windows")
	return linuxArgs, windowsArgs
}

func promptOne(reader *bufio.Reader, platform string) string {
	for {
		fmt.Printf("Enter any %s command-line arguments for this file (Enter for none): ", platform)
		line, _ := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			return ""
		}
		parsed, err := shellparse.Split(line)
		if err != nil {
			fmt.Println(color.YellowString("could not parse that as shell arguments: %v, try again", err))
			continue
		}
		fmt.Printf("  using: %s\n", shellparse.Join(parsed))
		return line
	}
}

const infoText = `
pdvzip: PNG data vehicle, ZIP edition

Embeds a ZIP archive and a cross-platform extraction script into a PNG
image, producing one file that is simultaneously:

  - a valid PNG image, viewable in any browser or image viewer;
  - a valid ZIP archive, openable by any standards-compliant ZIP reader;
  - a self-extracting script, once renamed to a .sh (Linux) or .cmd/.bat
    (Windows) extension and executed.

Usage:

  pdvzip <cover_image>.png <data>.zip

The cover image must be a truecolor or indexed-color PNG between 68 and
899 (truecolor) or 4096 (indexed-color) pixels per side. The ZIP archive's
first entry's filename must be at least 4 characters, including its
extension, and determines which program the extraction script launches.
`
