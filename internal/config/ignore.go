// Package config loads ignore rules and the application configuration.
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/temirov/treeview/internal/utils"
)

const (
	errorOpenIgnoreFileFormat = "opening %s: %w"
	errorReadIgnoreFileFormat = "reading %s: %w"
	warningCloseFileFormat    = "Warning: failed to close %s: %v\n"
)

// DefaultIgnoreFileNames lists the ignore files consulted when none are configured.
var DefaultIgnoreFileNames = []string{utils.GitIgnoreFileName}

// LoadIgnoreFileRules reads a single ignore file and returns its rules.
// Every non-empty line is one literal rule; nothing is trimmed or validated
// beyond removing the line terminator. A missing file yields no rules.
//
// #nosec G304
func LoadIgnoreFileRules(ignoreFilePath string) ([]string, error) {
	fileHandle, openFileError := os.Open(ignoreFilePath)
	if openFileError != nil {
		if os.IsNotExist(openFileError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorOpenIgnoreFileFormat, ignoreFilePath, openFileError)
	}
	defer func() {
		closeError := fileHandle.Close()
		if closeError != nil {
			fmt.Fprintf(os.Stderr, warningCloseFileFormat, ignoreFilePath, closeError)
		}
	}()

	var rules []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		rules = append(rules, line)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorReadIgnoreFileFormat, ignoreFilePath, scanError)
	}
	return rules, nil
}

// LoadIgnoreRules returns the rules governing the immediate contents of directoryPath.
// Rules from each ignore file name are concatenated in order and deduplicated.
// DefaultIgnoreFileNames is used when ignoreFileNames is empty.
func LoadIgnoreRules(directoryPath string, ignoreFileNames ...string) ([]string, error) {
	if len(ignoreFileNames) == 0 {
		ignoreFileNames = DefaultIgnoreFileNames
	}
	var combinedRules []string
	for _, ignoreFileName := range ignoreFileNames {
		fileRules, loadError := LoadIgnoreFileRules(filepath.Join(directoryPath, ignoreFileName))
		if loadError != nil {
			return nil, loadError
		}
		combinedRules = append(combinedRules, fileRules...)
	}
	return utils.DeduplicatePatterns(combinedRules), nil
}
