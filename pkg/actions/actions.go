// Package actions defines the closed set of context menu actions and the
// processing strategy each one uses.
package actions

import (
	"strings"

	"github.com/arthur-debert/ydmenu/pkg/errors"
)

// Action is a context menu action
type Action int

const (
	Unknown Action = iota
	PublishToYandexCom
	PublishToYandex
	UnpublishFromYandex
	UnpublishAllCopy
	FileAddToStream
	FileMoveToStream
	ClipboardPublishToCom
	ClipboardPublish
	ClipboardToStream
)

// Strategy is how an action processes its paths
type Strategy int

const (
	StrategyUnknown Strategy = iota
	// StrategyOneByOne runs a single-item action per path
	StrategyOneByOne
	// StrategyBatch copies or moves every path then syncs once
	StrategyBatch
	// StrategyClipboardOnly ignores paths and works on the clipboard
	StrategyClipboardOnly
)

// Info describes one action for help output
type Info struct {
	Action      Action
	Strategy    Strategy
	Description string
}

var table = []Info{
	{PublishToYandexCom, StrategyOneByOne, "Publish and copy the disk.yandex.com link"},
	{PublishToYandex, StrategyOneByOne, "Publish and copy the original link"},
	{UnpublishFromYandex, StrategyOneByOne, "Remove the public link"},
	{UnpublishAllCopy, StrategyOneByOne, "Remove the public links of the file and its numbered copies"},
	{FileAddToStream, StrategyBatch, "Copy into the stream directory and sync"},
	{FileMoveToStream, StrategyBatch, "Move into the stream directory and sync"},
	{ClipboardPublishToCom, StrategyClipboardOnly, "Save the clipboard to the stream, publish it and copy the disk.yandex.com link"},
	{ClipboardPublish, StrategyClipboardOnly, "Save the clipboard to the stream, publish it and copy the original link"},
	{ClipboardToStream, StrategyClipboardOnly, "Save the clipboard to the stream and sync"},
}

var names = map[Action]string{
	Unknown:               "Unknown",
	PublishToYandexCom:    "PublishToYandexCom",
	PublishToYandex:       "PublishToYandex",
	UnpublishFromYandex:   "UnpublishFromYandex",
	UnpublishAllCopy:      "UnpublishAllCopy",
	FileAddToStream:       "FileAddToStream",
	FileMoveToStream:      "FileMoveToStream",
	ClipboardPublishToCom: "ClipboardPublishToCom",
	ClipboardPublish:      "ClipboardPublish",
	ClipboardToStream:     "ClipboardToStream",
}

func (a Action) String() string {
	if name, ok := names[a]; ok {
		return name
	}
	return "Unknown"
}

func (s Strategy) String() string {
	switch s {
	case StrategyOneByOne:
		return "one-by-one"
	case StrategyBatch:
		return "batch"
	case StrategyClipboardOnly:
		return "clipboard"
	default:
		return "unknown"
	}
}

// Classify maps an action name to its Action. Names are matched exactly.
// Unrecognized names return Unknown and an UNKNOWN_COMMAND error.
func Classify(name string) (Action, error) {
	for _, info := range table {
		if info.Action.String() == name {
			return info.Action, nil
		}
	}
	return Unknown, errors.Newf(errors.ErrUnknownCommand, "unknown action %s", name).
		WithDetail("action", name)
}

// All returns every known action in menu order
func All() []Info {
	out := make([]Info, len(table))
	copy(out, table)
	return out
}

// Strategy returns the processing strategy for a
func (a Action) Strategy() Strategy {
	for _, info := range table {
		if info.Action == a {
			return info.Strategy
		}
	}
	return StrategyUnknown
}

// IsPublish reports whether a publishes the file it is given
func (a Action) IsPublish() bool {
	return a == PublishToYandexCom || a == PublishToYandex
}

// IsFileStream reports whether a copies or moves files into the stream
func (a Action) IsFileStream() bool {
	return strings.HasPrefix(a.String(), "File")
}

// IsUnpublish reports whether a removes public links
func (a Action) IsUnpublish() bool {
	return a == UnpublishFromYandex || a == UnpublishAllCopy
}

// UsesComDomain reports whether the clipboard receives the .com form of the link
func (a Action) UsesComDomain() bool {
	return a == PublishToYandexCom || a == ClipboardPublishToCom
}

// PublishesClipboard reports whether a clipboard action also publishes the saved note
func (a Action) PublishesClipboard() bool {
	return a == ClipboardPublishToCom || a == ClipboardPublish
}
