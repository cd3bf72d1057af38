package ydmenu

import (
	"embed"
	"io/fs"

	"github.com/arthur-debert/ydmenu/pkg/ui/markdown"
	"github.com/arthur-debert/ydmenu/pkg/ui/topics"
	"github.com/spf13/cobra"
)

//go:embed topics/*.md
var topicFiles embed.FS

// installTopics adds the embedded help topics to rootCmd
func installTopics(rootCmd *cobra.Command) error {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return err
	}

	renderer := markdown.NewRenderer()
	if !stdoutIsTerminal() {
		renderer.Style = "notty"
	}

	m, err := topics.Load(sub, renderer)
	if err != nil {
		return err
	}
	m.Install(rootCmd)
	return nil
}
