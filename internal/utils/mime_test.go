package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/treeview/internal/utils"
)

func TestDetectMimeType(t *testing.T) {
	tempDir := t.TempDir()
	testCases := []struct {
		name           string
		fileName       string
		content        []byte
		expectedPrefix string
	}{
		{name: "sniffed_text", fileName: "README", content: []byte("plain text"), expectedPrefix: "text/plain"},
		{name: "sniffed_binary", fileName: "blob", content: []byte{0x00, 0x01, 0x02}, expectedPrefix: utils.UnknownMimeType},
		{name: "sniffed_png", fileName: "image", content: []byte("\x89PNG\r\n\x1a\n0000"), expectedPrefix: "image/png"},
		{name: "extension_wins", fileName: "data.json", content: []byte("{}"), expectedPrefix: "application/json"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			path := filepath.Join(tempDir, testCase.fileName)
			if err := os.WriteFile(path, testCase.content, 0o600); err != nil {
				t.Fatalf("write sample file: %v", err)
			}
			if mimeType := utils.DetectMimeType(path); !strings.HasPrefix(mimeType, testCase.expectedPrefix) {
				t.Fatalf("expected %q prefix, got %q", testCase.expectedPrefix, mimeType)
			}
		})
	}

	missingPath := filepath.Join(tempDir, "missing")
	if result := utils.DetectMimeType(missingPath); result != utils.UnknownMimeType {
		t.Fatalf("expected unknown mime type for missing file, got %q", result)
	}
}
