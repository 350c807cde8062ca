package polyglot

import (
	"strings"

	"github.com/hashicorp/go-hclog"
)

// scriptTemplate is the barebones iCCP chunk: length placeholder, the
// "iCCP" type, the "scr\x00" ICC-profile-name-plus-compression-method
// prefix, then a dual POSIX-shell / Windows-batch bootstrap script that
// extracts the embedded ZIP (via "$0"/"%~dpnx0") and, once completed
// below, launches the first archived entry. The \r\n sequences are
// load-bearing: cmd.exe requires CRLF, and the POSIX shell ignores the
// trailing \r as part of its own line. Do not reflow or re-encode this
// byte array — it is treated as opaque data with named insertion points,
// not as text.
var scriptTemplate = []byte{
	0x00, 0x00, 0x00, 0xFD, 0x69, 0x43, 0x43, 0x50, 0x73, 0x63, 0x72, 0x00, 0x00, 0x0D, 0x52,
	0x45, 0x4D, 0x3B, 0x63, 0x6C, 0x65, 0x61, 0x72, 0x3B, 0x6D, 0x6B, 0x64, 0x69, 0x72, 0x20,
	0x2E, 0x2F, 0x70, 0x64, 0x76, 0x7A, 0x69, 0x70, 0x5F, 0x65, 0x78, 0x74, 0x72, 0x61, 0x63,
	0x74, 0x65, 0x64, 0x3B, 0x6D, 0x76, 0x20, 0x22, 0x24, 0x30, 0x22, 0x20, 0x2E, 0x2F, 0x70,
	0x64, 0x76, 0x7A, 0x69, 0x70, 0x5F, 0x65, 0x78, 0x74, 0x72, 0x61, 0x63, 0x74, 0x65, 0x64,
	0x3B, 0x63, 0x64, 0x20, 0x2E, 0x2F, 0x70, 0x64, 0x76, 0x7A, 0x69, 0x70, 0x5F, 0x65, 0x78,
	0x74, 0x72, 0x61, 0x63, 0x74, 0x65, 0x64, 0x3B, 0x75, 0x6E, 0x7A, 0x69, 0x70, 0x20, 0x2D,
	0x71, 0x6F, 0x20, 0x22, 0x24, 0x30, 0x22, 0x3B, 0x63, 0x6C, 0x65, 0x61, 0x72, 0x3B, 0x22,
	0x22, 0x3B, 0x65, 0x78, 0x69, 0x74, 0x3B, 0x0D, 0x0A, 0x23, 0x26, 0x63, 0x6C, 0x73, 0x26,
	0x6D, 0x6B, 0x64, 0x69, 0x72, 0x20, 0x2E, 0x5C, 0x70, 0x64, 0x76, 0x7A, 0x69, 0x70, 0x5F,
	0x65, 0x78, 0x74, 0x72, 0x61, 0x63, 0x74, 0x65, 0x64, 0x26, 0x6D, 0x6F, 0x76, 0x65, 0x20,
	0x22, 0x25, 0x7E, 0x64, 0x70, 0x6E, 0x78, 0x30, 0x22, 0x20, 0x2E, 0x5C, 0x70, 0x64, 0x76,
	0x7A, 0x69, 0x70, 0x5F, 0x65, 0x78, 0x74, 0x72, 0x61, 0x63, 0x74, 0x65, 0x64, 0x26, 0x63,
	0x64, 0x20, 0x2E, 0x5C, 0x70, 0x64, 0x76, 0x7A, 0x69, 0x70, 0x5F, 0x65, 0x78, 0x74, 0x72,
	0x61, 0x63, 0x74, 0x65, 0x64, 0x26, 0x63, 0x6C, 0x73, 0x26, 0x74, 0x61, 0x72, 0x20, 0x2D,
	0x78, 0x66, 0x20, 0x22, 0x25, 0x7E, 0x6E, 0x30, 0x25, 0x7E, 0x78, 0x30, 0x22, 0x26, 0x20,
	0x22, 0x22, 0x26, 0x72, 0x65, 0x6E, 0x20, 0x22, 0x25, 0x7E, 0x6E, 0x30, 0x25, 0x7E, 0x78,
	0x30, 0x22, 0x20, 0x2A, 0x2E, 0x70, 0x6E, 0x67, 0x26, 0x65, 0x78, 0x69, 0x74, 0x0D, 0x0A,
	0x00, 0x00, 0x00, 0x00,
}

// Fixed insertion indices within the pristine template, per spec.md §4.E.
const (
	pos119 = 119
	pos120 = 120
	pos121 = 121
	pos239 = 239
	pos241 = 241
	pos242 = 242
	pos264 = 264
)

// Launcher command fragments, keyed by class. Each is inserted verbatim;
// ComposeScript space-prefixes the prompted argument strings before
// inserting them.
const (
	cmdVLC                  = "vlc --play-and-exit --no-video-title-show "
	cmdEvince               = "evince "
	cmdPython               = "python3 "
	cmdPwsh                 = "pwsh "
	cmdDotSlash             = "./"
	cmdXdgOpen              = "xdg-open "
	cmdPowershellInvokeItem = "powershell;Invoke-Item "
	cmdDevNull              = " &> /dev/null"
	cmdStartB               = "start /b \"\""
	cmdPause                = "pause&"
	cmdWinPowershell        = "powershell"
	cmdChmod                = "chmod +x "
	cmdSemicolon            = ";"
)

// extensionTable holds the 19 three-character extension keys recognized
// by the launcher, in match-priority order. Index 0-14 select the
// VIDEO_AUDIO class, 15 PDF, 16 PYTHON, 17 POWERSHELL, 18 EXECUTABLE.
var extensionTable = [...]string{
	"aac", "mp3", "mp4", "avi", "asf", "flv", "ebm", "mkv", "peg", "wav",
	"wmv", "wma", "mov", "3gp", "ogg", "pdf", ".py", "ps1", "exe",
}

const shKey = ".sh" // synthetic 20th key: not a real extension match target from extensionTable, handled as its own class.

// Launcher classes, numbered to match the upstream tool's internal
// App_Vec index scheme; the numbering only matters for the insertion
// arithmetic below, never observed by callers.
const (
	classVideoAudio = 20
	classPDF        = 21
	classPython     = 22
	classPowerShell = 23
	classExecutable = 24
	classBashXdg    = 25
	classFolder     = 26
)

// ArgPrompter collects optional command-line arguments for launcher
// classes that support them (Python, PowerShell, executable, shell
// script). Implementations typically read from the terminal; tests can
// supply a stub. A nil ArgPrompter is treated as "no arguments".
type ArgPrompter func() (linuxArgs, windowsArgs string)

// classifyEntry determines the launcher class for the first ZIP entry's
// name, following spec.md §4.E's extension table, folder, and
// no-extension-treated-as-executable rules.
func classifyEntry(name string) int {
	ext := name[len(name)-3:]
	if ext == shKey {
		return classBashXdg
	}
	for i, key := range extensionTable {
		if key == ext {
			if i <= 14 {
				return classVideoAudio
			}
			return i + 6 // 15+6=21(PDF), 16+6=22(PYTHON), 17+6=23(POWERSHELL), 18+6=24(EXECUTABLE)
		}
	}

	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 { // no extension, or a hidden file with a leading dot and nothing after
		if name[len(name)-1] == '/' {
			return classFolder
		}
		return classExecutable
	}
	return -1 // no match: caller falls back to the DEFAULT class
}

// needsArgs reports whether class prompts the user for launch arguments.
func needsArgs(class int) bool {
	return class == classPython || class == classPowerShell || class == classExecutable || class == classBashXdg
}

// ComposeScript builds the complete iCCP chunk per spec.md §4.E: it picks
// a launcher command sequence based on the first ZIP entry's name, splices
// the relevant strings into scriptTemplate at descending byte positions,
// sanitizes the resulting chunk-length field, and writes the final CRC.
func ComposeScript(logger hclog.Logger, framedZip []byte, prompt ArgPrompter) ([]byte, error) {
	name := firstEntryName(framedZip)
	class := classifyEntry(name)

	var argsLinux, argsWindows string
	if prompt != nil && needsArgs(class) {
		argsLinux, argsWindows = prompt()
		if argsLinux != "" {
			argsLinux = " " + argsLinux
		}
		if argsWindows != "" {
			argsWindows = " " + argsWindows
		}
	}

	type insertion struct {
		pos int
		str string
	}

	var inserts []insertion // built highest-position-first; applied in that order

	switch {
	case class == classVideoAudio:
		inserts = []insertion{
			{pos241, name}, {pos239, cmdStartB}, {pos121, cmdDevNull}, {pos120, name}, {pos119, cmdVLC},
		}
	case class == classPDF || class == classFolder || class == -1:
		linuxCmd, winCmd := cmdEvince, cmdStartB
		if class == classFolder {
			linuxCmd, winCmd = cmdXdgOpen, cmdPowershellInvokeItem
		} else if class == -1 {
			linuxCmd, winCmd = cmdXdgOpen, cmdStartB
		}
		inserts = []insertion{
			{pos241, name}, {pos239, winCmd}, {pos120, name}, {pos119, linuxCmd},
		}
	case class == classPython || class == classPowerShell:
		winName := name
		linuxCmd, winCmd := cmdPython, cmdPython
		if class == classPowerShell {
			winName = ".\\" + name
			linuxCmd, winCmd = cmdPwsh, cmdWinPowershell
		}
		inserts = []insertion{
			{pos264, cmdPause}, {pos242, argsWindows}, {pos241, winName}, {pos239, winCmd},
			{pos121, argsLinux}, {pos120, name}, {pos119, linuxCmd},
		}
	case class == classExecutable || class == classBashXdg:
		if class == classExecutable {
			inserts = []insertion{
				{pos264, cmdPause}, {pos242, argsWindows}, {pos241, name}, {pos239, cmdStartB},
				{pos121, argsLinux}, {pos120, name}, {pos119, cmdDotSlash},
				{pos119, cmdSemicolon}, {pos119, name}, {pos119, cmdChmod},
			}
		} else {
			inserts = []insertion{
				{pos242, argsWindows}, {pos241, name}, {pos239, cmdStartB},
				{pos121, argsLinux}, {pos120, name}, {pos119, cmdDotSlash},
				{pos119, cmdSemicolon}, {pos119, name}, {pos119, cmdChmod},
			}
		}
	default:
		return nil, newErr(CategoryZipShape, "unable to classify first ZIP entry %q", name)
	}

	script := make([]byte, len(scriptTemplate))
	copy(script, scriptTemplate)
	for _, ins := range inserts {
		script = insertAt(script, ins.pos, ins.str)
	}

	scriptSize := len(script)
	writeBE(script, 2, uint64(scriptSize-12), 16)

	if containsForbiddenByte(script[3]) {
		script = append(script[:scriptSize-4], append([]byte(strings.Repeat(".", 10)), script[scriptSize-4:]...)...)
		scriptSize = len(script)
		writeBE(script, 2, uint64(scriptSize-12), 16)
	}

	if scriptSize > MaxScriptSize {
		return nil, newErr(CategorySizeBounds, "extraction script exceeds size limit")
	}

	crc := crc32PNG(script[4 : scriptSize-4])
	writeBE(script, scriptSize-4, uint64(crc), 32)

	logger.Debug("composed extraction script", "class", class, "entry", name, "script_size", scriptSize)
	return script, nil
}

// insertAt inserts s into buf immediately before index pos, shifting the
// remainder of buf forward. Equivalent to the C++ vector::insert calls in
// the upstream tool's script builder, applied one string at a time.
func insertAt(buf []byte, pos int, s string) []byte {
	if s == "" {
		return buf
	}
	out := make([]byte, 0, len(buf)+len(s))
	out = append(out, buf[:pos]...)
	out = append(out, s...)
	out = append(out, buf[pos:]...)
	return out
}
