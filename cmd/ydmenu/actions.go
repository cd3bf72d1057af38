package ydmenu

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/ydmenu/pkg/actions"
	"github.com/arthur-debert/ydmenu/pkg/dispatcher"
	"github.com/arthur-debert/ydmenu/pkg/ui/markdown"
	"github.com/spf13/cobra"
)

func (a *App) newActionsCmd() *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:     "actions",
		Short:   MsgActionsShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content := actionsMarkdown(dispatcher.DefaultServiceMenuDir())
			if raw {
				fmt.Fprint(cmd.OutOrStdout(), content)
				return nil
			}

			renderer := markdown.NewRenderer()
			if !stdoutIsTerminal() {
				renderer.Style = "notty"
			}
			fmt.Fprint(cmd.OutOrStdout(), renderer.Render(content))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "markdown", false, "Print the markdown source")
	return cmd
}

// actionsMarkdown lists every action as a markdown table
func actionsMarkdown(serviceMenuDir string) string {
	var b strings.Builder
	b.WriteString(MsgActionsHeading)
	for _, info := range actions.All() {
		fmt.Fprintf(&b, MsgActionsRow, info.Action, info.Strategy, info.Description)
	}
	fmt.Fprintf(&b, MsgActionsFootnote, serviceMenuDir)
	return b.String()
}
