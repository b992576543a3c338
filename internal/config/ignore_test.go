package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/temirov/treeview/internal/utils"
)

// writeTestFile creates a file with the specified content, failing the test on error.
func writeTestFile(testingHandle *testing.T, filePath string, content string) {
	testingHandle.Helper()
	if writeError := os.WriteFile(filePath, []byte(content), 0o644); writeError != nil {
		testingHandle.Fatalf("failed to write %s: %v", filePath, writeError)
	}
}

// TestLoadIgnoreRulesMissingFile verifies that an absent ignore file yields no rules and no error.
func TestLoadIgnoreRulesMissingFile(testingHandle *testing.T) {
	rules, loadError := LoadIgnoreRules(testingHandle.TempDir())
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreRules failed: %v", loadError)
	}
	if len(rules) != 0 {
		testingHandle.Fatalf("expected no rules, got %v", rules)
	}
}

// TestLoadIgnoreRulesLiteralLines verifies that each non-empty line becomes one literal rule.
func TestLoadIgnoreRulesLiteralLines(testingHandle *testing.T) {
	testCases := []struct {
		testName string
		content  string
		expected []string
	}{
		{
			testName: "names and extension rules",
			content:  "build\n*.csv\nsecret.txt\n",
			expected: []string{"build", "*.csv", "secret.txt"},
		},
		{
			testName: "blank lines skipped",
			content:  "\nbuild\n\n\n*.log",
			expected: []string{"build", "*.log"},
		},
		{
			testName: "malformed lines kept verbatim",
			content:  "# comment\n  padded  \n[bad\n",
			expected: []string{"# comment", "  padded  ", "[bad"},
		},
		{
			testName: "windows line endings",
			content:  "build\r\n*.csv\r\n",
			expected: []string{"build", "*.csv"},
		},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.testName, func(testingHandle *testing.T) {
			directory := testingHandle.TempDir()
			writeTestFile(testingHandle, filepath.Join(directory, utils.GitIgnoreFileName), testCase.content)
			rules, loadError := LoadIgnoreRules(directory)
			if loadError != nil {
				testingHandle.Fatalf("LoadIgnoreRules failed: %v", loadError)
			}
			if !reflect.DeepEqual(rules, testCase.expected) {
				testingHandle.Fatalf("unexpected rules: got %q want %q", rules, testCase.expected)
			}
		})
	}
}

// TestLoadIgnoreRulesDirectoryLocal verifies that a parent's ignore file does not govern a child directory.
func TestLoadIgnoreRulesDirectoryLocal(testingHandle *testing.T) {
	rootDirectory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(rootDirectory, utils.GitIgnoreFileName), "root.txt\n")
	nestedDirectory := filepath.Join(rootDirectory, "nested")
	if makeDirError := os.MkdirAll(nestedDirectory, 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create nested directory: %v", makeDirError)
	}
	writeTestFile(testingHandle, filepath.Join(nestedDirectory, utils.GitIgnoreFileName), "nested.txt\n")

	nestedRules, loadError := LoadIgnoreRules(nestedDirectory)
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreRules failed: %v", loadError)
	}
	if !reflect.DeepEqual(nestedRules, []string{"nested.txt"}) {
		testingHandle.Fatalf("unexpected nested rules: %v", nestedRules)
	}
}

// TestLoadIgnoreRulesMultipleFiles verifies concatenation and deduplication across ignore files.
func TestLoadIgnoreRulesMultipleFiles(testingHandle *testing.T) {
	directory := testingHandle.TempDir()
	writeTestFile(testingHandle, filepath.Join(directory, utils.GitIgnoreFileName), "a\nb\n")
	writeTestFile(testingHandle, filepath.Join(directory, ".ignore"), "b\nc\n")

	rules, loadError := LoadIgnoreRules(directory, utils.GitIgnoreFileName, ".ignore")
	if loadError != nil {
		testingHandle.Fatalf("LoadIgnoreRules failed: %v", loadError)
	}
	if !reflect.DeepEqual(rules, []string{"a", "b", "c"}) {
		testingHandle.Fatalf("unexpected rules: %v", rules)
	}
}

// TestLoadIgnoreRulesUnreadable verifies that an ignore path that cannot be read is reported.
func TestLoadIgnoreRulesUnreadable(testingHandle *testing.T) {
	directory := testingHandle.TempDir()
	if makeDirError := os.Mkdir(filepath.Join(directory, utils.GitIgnoreFileName), 0o755); makeDirError != nil {
		testingHandle.Fatalf("failed to create directory: %v", makeDirError)
	}
	if _, loadError := LoadIgnoreRules(directory); loadError == nil {
		testingHandle.Fatalf("expected an error when the ignore path is a directory")
	}
}
