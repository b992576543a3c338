package web

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/temirov/treeview/internal/types"
)

const replacementCharacter = "�"

func TestTrimPartialRune(t *testing.T) {
	testCases := []struct {
		name     string
		input    []byte
		expected []byte
	}{
		{name: "ascii", input: []byte("abc"), expected: []byte("abc")},
		{name: "cut_three_byte", input: []byte("ab\xe2\x82"), expected: []byte("ab")},
		{name: "cut_four_byte", input: []byte("ab\xf0\x9f\x98"), expected: []byte("ab")},
		{name: "complete_euro", input: []byte("ab€"), expected: []byte("ab€")},
		{name: "encoded_replacement", input: []byte("ab" + replacementCharacter + replacementCharacter), expected: []byte("ab" + replacementCharacter + replacementCharacter)},
		{name: "replacement_then_cut", input: []byte("a" + replacementCharacter + "\xe2"), expected: []byte("a" + replacementCharacter)},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, trimPartialRune(append([]byte(nil), testCase.input...)))
		})
	}
}

func TestViewKeepsReplacementCharacterAtLimit(t *testing.T) {
	root := t.TempDir()
	encodedReplacement := []byte(replacementCharacter)
	var content bytes.Buffer
	content.Write(bytes.Repeat([]byte("a"), maxViewBytes-2*len(encodedReplacement)))
	content.Write(encodedReplacement)
	content.Write(encodedReplacement)
	content.WriteString("tail beyond the limit\n")
	require.NoError(t, os.WriteFile(filepath.Join(root, "large.txt"), content.Bytes(), 0o644))

	server := NewServer(Config{Projects: types.NewProjectRegistry([]types.Project{{Name: "alpha", Root: root}})})
	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/projects/alpha/view?path=large.txt", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	body := recorder.Body.String()
	assert.NotContains(t, body, UndecodablePlaceholder)
	assert.Contains(t, body, strings.Repeat(replacementCharacter, 2))
	assert.Contains(t, body, `class="file-truncated"`)
}
