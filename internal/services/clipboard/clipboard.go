// Package clipboard copies rendered trees to the system clipboard.
package clipboard

import (
	"fmt"

	"github.com/atotto/clipboard"
)

const copyFailedErrorFormat = "copy %d bytes to clipboard: %w"

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// CopierFunc adapts a function to the Copier interface.
type CopierFunc func(text string) error

// Copy calls copierFunc(text).
func (copierFunc CopierFunc) Copy(text string) error {
	return copierFunc(text)
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard Service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
// It fails when no clipboard utility is available on the host.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf(copyFailedErrorFormat, len(text), ErrUnsupported)
	}
	if writeError := clipboard.WriteAll(text); writeError != nil {
		return fmt.Errorf(copyFailedErrorFormat, len(text), writeError)
	}
	return nil
}

var (
	_ Copier = (*Service)(nil)
	_ Copier = CopierFunc(nil)
)
