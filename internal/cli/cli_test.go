package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/treeview/internal/icons"
	"github.com/temirov/treeview/internal/services/clipboard"
	"github.com/temirov/treeview/internal/types"
)

type recordingClipboard struct {
	copied []string
	err    error
}

func (recorder *recordingClipboard) Copy(text string) error {
	recorder.copied = append(recorder.copied, text)
	return recorder.err
}

var _ clipboard.Copier = (*recordingClipboard)(nil)

// isolateEnvironment points the home and working directories at empty temporary directories.
func isolateEnvironment(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	workingDirectory := t.TempDir()
	t.Chdir(workingDirectory)
	return workingDirectory
}

func writeTestFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func executeCommand(t *testing.T, recorder *recordingClipboard, arguments ...string) (string, error) {
	t.Helper()
	if recorder == nil {
		recorder = &recordingClipboard{}
	}
	rootCommand := createRootCommand(dependencies{clipboard: recorder})
	var buffer bytes.Buffer
	rootCommand.SetOut(&buffer)
	rootCommand.SetErr(&buffer)
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, normalizeCopyFlagArguments(arguments)))
	executeErr := rootCommand.Execute()
	return buffer.String(), executeErr
}

func createSampleProject(t *testing.T) string {
	t.Helper()
	projectRoot := filepath.Join(t.TempDir(), "project")
	writeTestFile(t, filepath.Join(projectRoot, "src", "main.py"), "pass\n")
	writeTestFile(t, filepath.Join(projectRoot, "run.py"), "print()\n")
	writeTestFile(t, filepath.Join(projectRoot, "notes.txt"), "notes\n")
	writeTestFile(t, filepath.Join(projectRoot, ".env"), "SECRET=1\n")
	return projectRoot
}

func TestTreeCommandRawCollapsed(t *testing.T) {
	isolateEnvironment(t)
	projectRoot := createSampleProject(t)

	outputText, executeErr := executeCommand(t, nil, "tree", projectRoot)
	if executeErr != nil {
		t.Fatalf("tree command failed: %v", executeErr)
	}
	expected := icons.Folder + " project/\n" +
		"├── " + icons.Folder + " src/ [+]\n" +
		"├── " + icons.Python + " run.py\n" +
		"└── " + icons.Text + " notes.txt\n"
	if outputText != expected {
		t.Fatalf("unexpected output:\n%s", outputText)
	}
}

func TestTreeCommandExpandRelativePath(t *testing.T) {
	isolateEnvironment(t)
	projectRoot := createSampleProject(t)

	outputText, executeErr := executeCommand(t, nil, "tree", "--expand", "src", "--format", "json", projectRoot)
	if executeErr != nil {
		t.Fatalf("tree command failed: %v", executeErr)
	}
	var root types.TreeNode
	if decodeErr := json.Unmarshal([]byte(outputText), &root); decodeErr != nil {
		t.Fatalf("decode output: %v\n%s", decodeErr, outputText)
	}
	if len(root.Children) != 3 || !root.Children[0].IsExpanded {
		t.Fatalf("expected src to be expanded: %s", outputText)
	}
	if len(root.Children[0].Children) != 1 || root.Children[0].Children[0].Name != "main.py" {
		t.Fatalf("unexpected src children: %s", outputText)
	}
}

func TestTreeCommandExpandAllWithSummary(t *testing.T) {
	isolateEnvironment(t)
	projectRoot := createSampleProject(t)

	outputText, executeErr := executeCommand(t, nil, "tree", "--expand-all", "--summary", projectRoot)
	if executeErr != nil {
		t.Fatalf("tree command failed: %v", executeErr)
	}
	if !strings.Contains(outputText, "main.py") {
		t.Fatalf("expected nested file in output:\n%s", outputText)
	}
	if !strings.HasSuffix(outputText, "Summary: 3 files, 1 directory\n") {
		t.Fatalf("expected summary line:\n%s", outputText)
	}
}

func TestTreeCommandCopiesRendering(t *testing.T) {
	isolateEnvironment(t)
	projectRoot := createSampleProject(t)
	recorder := &recordingClipboard{}

	outputText, executeErr := executeCommand(t, recorder, "tree", "--copy", projectRoot)
	if executeErr != nil {
		t.Fatalf("tree command failed: %v", executeErr)
	}
	if len(recorder.copied) != 1 || recorder.copied[0] != outputText {
		t.Fatalf("expected clipboard to receive the printed tree, got %q", recorder.copied)
	}
}

func TestTreeCommandReportsClipboardFailure(t *testing.T) {
	isolateEnvironment(t)
	projectRoot := createSampleProject(t)
	recorder := &recordingClipboard{err: clipboard.ErrUnsupported}

	_, executeErr := executeCommand(t, recorder, "tree", "--copy", projectRoot)
	if !errors.Is(executeErr, clipboard.ErrUnsupported) {
		t.Fatalf("expected clipboard error, got %v", executeErr)
	}
}

func TestTreeCommandUsesConfiguredIgnoreFiles(t *testing.T) {
	workingDirectory := isolateEnvironment(t)
	projectRoot := createSampleProject(t)
	writeTestFile(t, filepath.Join(projectRoot, ".treeignore"), "*.txt\n")
	writeTestFile(t, filepath.Join(workingDirectory, "config.yaml"), "tree:\n  ignore_files:\n    - .treeignore\n")

	outputText, executeErr := executeCommand(t, nil, "tree", projectRoot)
	if executeErr != nil {
		t.Fatalf("tree command failed: %v", executeErr)
	}
	if strings.Contains(outputText, "notes.txt") {
		t.Fatalf("expected notes.txt to be ignored:\n%s", outputText)
	}
}

func TestTreeCommandRejectsInvalidInput(t *testing.T) {
	isolateEnvironment(t)
	projectRoot := createSampleProject(t)

	testCases := []struct {
		name      string
		arguments []string
		message   string
	}{
		{name: "unknown_format", arguments: []string{"tree", "--format", "yaml", projectRoot}, message: "Invalid format value 'yaml'"},
		{name: "missing_path", arguments: []string{"tree", filepath.Join(projectRoot, "absent")}, message: "does not exist"},
		{name: "file_path", arguments: []string{"tree", filepath.Join(projectRoot, "run.py")}, message: "is not a directory"},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			_, executeErr := executeCommand(t, nil, testCase.arguments...)
			if executeErr == nil || !strings.Contains(executeErr.Error(), testCase.message) {
				t.Fatalf("expected error containing %q, got %v", testCase.message, executeErr)
			}
		})
	}
}

func TestInitCommandWritesLocalConfiguration(t *testing.T) {
	workingDirectory := isolateEnvironment(t)

	outputText, executeErr := executeCommand(t, nil, "init")
	if executeErr != nil {
		t.Fatalf("init command failed: %v", executeErr)
	}
	configurationPath := filepath.Join(workingDirectory, "config.yaml")
	if !strings.Contains(outputText, "config.yaml") {
		t.Fatalf("expected destination in output: %s", outputText)
	}
	if _, statErr := os.Stat(configurationPath); statErr != nil {
		t.Fatalf("expected configuration file: %v", statErr)
	}

	if _, repeatErr := executeCommand(t, nil, "init"); repeatErr == nil {
		t.Fatalf("expected error when configuration exists")
	}
	if _, forceErr := executeCommand(t, nil, "init", "--force"); forceErr != nil {
		t.Fatalf("expected --force to overwrite: %v", forceErr)
	}
}

func TestParseProjectFlags(t *testing.T) {
	projects, parseErr := parseProjectFlags([]string{"alpha=/srv/alpha", " beta = ./beta "})
	if parseErr != nil {
		t.Fatalf("unexpected error: %v", parseErr)
	}
	if len(projects) != 2 || projects[0].Name != "alpha" || projects[1].Path != "./beta" {
		t.Fatalf("unexpected projects: %+v", projects)
	}
	for _, invalid := range []string{"alpha", "=/srv", "alpha="} {
		if _, invalidErr := parseProjectFlags([]string{invalid}); invalidErr == nil {
			t.Fatalf("expected error for %q", invalid)
		}
	}
}
