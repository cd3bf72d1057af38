package testutil

import (
	"context"
	"sync"

	"github.com/arthur-debert/ydmenu/pkg/errors"
)

// Clipboard is an in-memory clipboard that counts writes
type Clipboard struct {
	mu        sync.Mutex
	text      string
	imageMime string
	image     []byte
	writes    []string
	readErr   error
	writeErr  error
}

// NewClipboard returns a clipboard holding text
func NewClipboard(text string) *Clipboard {
	return &Clipboard{text: text}
}

// SetImage puts image data of the given mime type on the clipboard
func (c *Clipboard) SetImage(mime string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.imageMime, c.image = mime, data
}

// FailReads makes every read return err
func (c *Clipboard) FailReads(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readErr = err
}

// FailWrites makes every write return err
func (c *Clipboard) FailWrites(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr = err
}

func (c *Clipboard) Name() string    { return "fake" }
func (c *Clipboard) Available() bool { return true }

func (c *Clipboard) Text(context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.readErr != nil {
		return "", c.readErr
	}
	return c.text, nil
}

func (c *Clipboard) SetText(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.text = text
	c.imageMime, c.image = "", nil
	c.writes = append(c.writes, text)
	return nil
}

func (c *Clipboard) HasImage(context.Context) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.imageMime, c.imageMime != ""
}

func (c *Clipboard) Image(_ context.Context, mime string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mime != c.imageMime {
		return nil, errors.Newf(errors.ErrClipboard, "no %s on clipboard", mime)
	}
	return c.image, nil
}

// Current returns what the clipboard holds now
func (c *Clipboard) Current() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

// Writes returns every text written, in order
func (c *Clipboard) Writes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.writes...)
}
