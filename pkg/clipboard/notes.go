package clipboard

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
	"github.com/arthur-debert/ydmenu/pkg/naming"
)

const (
	notePrefix     = "note-"
	noteTimeLayout = "2006-01-02 15:04:05"
	summaryRunes   = 30
)

var summaryJunk = regexp.MustCompile(`[<>|\\;/(),"']|(https?:)|(:)|( {2})|( \.)+$`)

// NoteName builds the file name for clipboard text saved at now
func NoteName(text string, now time.Time) string {
	name := notePrefix + now.Format(noteTimeLayout)
	if summary := Summary(text); summary != "" {
		name += " " + summary
	}
	return name + ".txt"
}

// ImageNoteName builds the file name for a clipboard image of the given mime type
func ImageNoteName(mime string, now time.Time) string {
	ext := "png"
	if i := strings.LastIndex(mime, "/"); i >= 0 && i < len(mime)-1 {
		ext = mime[i+1:]
	}
	return notePrefix + now.Format(noteTimeLayout) + "." + ext
}

// Summary returns the first line of text, cut to 30 runes and stripped of
// characters that do not belong in a file name
func Summary(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	line, _, _ := strings.Cut(text, "\n")
	if runes := []rune(line); len(runes) > summaryRunes {
		line = string(runes[:summaryRunes])
	}
	return strings.TrimSpace(summaryJunk.ReplaceAllString(line, ""))
}

// SaveToStream writes the clipboard content into dir as a new note file and
// returns its path. Image content wins over text. Empty text is an error.
func SaveToStream(ctx context.Context, c Clipboard, fsys filesystem.FS, dir string, now time.Time) (string, error) {
	var (
		name string
		data []byte
	)

	if mime, ok := c.HasImage(ctx); ok {
		image, err := c.Image(ctx, mime)
		if err != nil {
			return "", err
		}
		if len(image) == 0 {
			return "", errors.New(errors.ErrNoClipboardContent, "clipboard image is empty")
		}
		name, data = ImageNoteName(mime, now), image
	} else {
		text, err := c.Text(ctx)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrNoClipboardContent, "cannot read clipboard")
		}
		if strings.TrimSpace(text) == "" {
			return "", errors.New(errors.ErrNoClipboardContent, "clipboard is empty")
		}
		name, data = NoteName(text, now), []byte(text)
	}

	unique, err := naming.Unique(fsys, name, dir)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, unique)
	if err := filesystem.WriteNew(fsys, path, data, 0644); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileCreate, "cannot save clipboard to %s", path)
	}
	return path, nil
}
