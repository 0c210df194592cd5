package editor

import "github.com/atotto/clipboard"

// Clipboard is the editor's cut/copy/paste target.
type Clipboard interface {
	Copy(text string) error
	Paste() (string, error)
}

// SystemClipboard uses the operating system clipboard.
type SystemClipboard struct{}

// Copy writes text to the system clipboard.
func (SystemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

// Paste reads the system clipboard.
func (SystemClipboard) Paste() (string, error) {
	return clipboard.ReadAll()
}

// MemoryClipboard keeps the clipboard in process. It is used in tests and
// when no system clipboard is available.
type MemoryClipboard struct {
	Text string
}

// Copy stores text.
func (c *MemoryClipboard) Copy(text string) error {
	c.Text = text
	return nil
}

// Paste returns the stored text.
func (c *MemoryClipboard) Paste() (string, error) {
	return c.Text, nil
}
