package polyglot

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"
)

func TestClassifyEntry(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"movie.mp4", classVideoAudio},
		{"document.pdf", classPDF},
		{"script.py", classPython},
		{"script.ps1", classPowerShell},
		{"program.exe", classExecutable},
		{"install.sh", classBashXdg},
		{"folder/", classFolder},
		{"no_extension_here", classExecutable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyEntry(tt.name); got != tt.want {
				t.Errorf("classifyEntry(%q) = %d, want %d", tt.name, got, tt.want)
			}
		})
	}
}

func TestClassifyEntry_UnknownExtensionFallsToDefault(t *testing.T) {
	if got := classifyEntry("readme.txt"); got != -1 {
		t.Errorf("classifyEntry(readme.txt) = %d, want -1 (DEFAULT)", got)
	}
}

func TestComposeScript_EmbedsEntryNameAndValidChecksum(t *testing.T) {
	zipData := buildTestZIP("clip.mp4", []byte("data"))
	framed, err := FrameZIP(testLogger(), zipData)
	if err != nil {
		t.Fatalf("FrameZIP: %v", err)
	}

	script, err := ComposeScript(testLogger(), framed, nil)
	if err != nil {
		t.Fatalf("ComposeScript: %v", err)
	}

	if !bytes.Contains(script, []byte("clip.mp4")) {
		t.Error("expected composed script to contain the entry name")
	}

	size := len(script)
	crcStored := binary.BigEndian.Uint32(script[size-4:])
	crcCalc := crc32PNG(script[4 : size-4])
	if crcStored != crcCalc {
		t.Errorf("stored CRC %#x does not match calculated CRC %#x", crcStored, crcCalc)
	}

	lengthField := binary.BigEndian.Uint16(script[2:4])
	if int(lengthField) != size-12 {
		t.Errorf("length field = %d, want %d", lengthField, size-12)
	}
}

func TestComposeScript_RespectsMaxScriptSize(t *testing.T) {
	longName := strings.Repeat("x", MaxScriptSize) + ".exe"
	zipData := buildTestZIP(longName, []byte("data"))
	framed, err := FrameZIP(testLogger(), zipData)
	if err != nil {
		t.Fatalf("FrameZIP: %v", err)
	}

	_, err = ComposeScript(testLogger(), framed, nil)
	if err == nil {
		t.Fatal("expected error when composed script exceeds the maximum size")
	}
}

func TestComposeScript_PromptedArgsAreEmbedded(t *testing.T) {
	zipData := buildTestZIP("tool.exe", []byte("data"))
	framed, err := FrameZIP(testLogger(), zipData)
	if err != nil {
		t.Fatalf("FrameZIP: %v", err)
	}

	script, err := ComposeScript(testLogger(), framed, func() (string, string) {
		return "--linux-flag", "--windows-flag"
	})
	if err != nil {
		t.Fatalf("ComposeScript: %v", err)
	}

	if !bytes.Contains(script, []byte("--linux-flag")) {
		t.Error("expected composed script to contain the Linux argument string")
	}
	if !bytes.Contains(script, []byte("--windows-flag")) {
		t.Error("expected composed script to contain the Windows argument string")
	}
}
