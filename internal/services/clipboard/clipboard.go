// Package clipboard provides access to the system clipboard.
package clipboard

import (
	"github.com/atotto/clipboard"
	"github.com/cockroachdb/errors"
)

// ErrClipboardUnavailable marks a copy attempted on a system without a clipboard utility.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Copier copies textual data to the system clipboard.
type Copier interface {
	Copy(text string) error
}

// Service implements Copier using github.com/atotto/clipboard.
type Service struct{}

// NewService constructs a clipboard service.
func NewService() *Service {
	return &Service{}
}

// Copy writes text to the system clipboard.
func (service *Service) Copy(text string) error {
	if clipboard.Unsupported {
		return errors.Mark(errors.New("no clipboard utility found (install xclip, xsel or wl-clipboard)"), ErrClipboardUnavailable)
	}
	if writeError := clipboard.WriteAll(text); writeError != nil {
		return errors.Mark(errors.Wrap(writeError, "write clipboard"), ErrClipboardUnavailable)
	}
	return nil
}

var _ Copier = (*Service)(nil)
