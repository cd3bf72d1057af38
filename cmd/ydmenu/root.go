// Package ydmenu is the command line front end. Service menus invoke it as
// "ydmenu <action> [paths...]"; the remaining commands help with setup.
package ydmenu

import (
	"context"
	"fmt"

	"github.com/arthur-debert/ydmenu/internal/version"
	"github.com/arthur-debert/ydmenu/pkg/actions"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/ui/styles"
	"github.com/spf13/cobra"
)

// App is one ydmenu process. Dispatch results are reported through the
// exit status rather than as command errors.
type App struct {
	deps  Deps
	flags globals
	code  int
}

// New creates an App over deps
func New(deps Deps) *App {
	return &App{deps: deps.withDefaults()}
}

// Execute runs the command line args and returns the process exit status
func (a *App) Execute(ctx context.Context, args []string) int {
	a.code = 0
	rootCmd := a.NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.deps.Stdout)
	rootCmd.SetErr(a.deps.Stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(a.deps.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		return 1
	}
	return a.code
}

// NewRootCmd creates and returns the root command
func (a *App) NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	rootCmd := &cobra.Command{
		Use:     "ydmenu <action> [paths...]",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		Example: MsgRunExample,
		// Anything that is not a subcommand is an action name
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: actionCompletion,
		RunE:              a.runDispatch,
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.PersistentFlags().CountVarP(&a.flags.verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVarP(&a.flags.configFile, "config", "c", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&a.flags.root, "root", "", MsgFlagRoot)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})
	rootCmd.SetUsageTemplate(usageTemplate)

	rootCmd.AddCommand(a.newRunCmd())
	rootCmd.AddCommand(a.newStatusCmd())
	rootCmd.AddCommand(a.newActionsCmd())
	rootCmd.AddCommand(a.newGenConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())

	if err := installTopics(rootCmd); err != nil {
		fmt.Fprintf(a.deps.Stderr, "help topics unavailable: %v\n", err)
	}

	return rootCmd
}

func (a *App) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run <action> [paths...]",
		Short:             MsgRunShort,
		Example:           MsgRunExample,
		GroupID:           "core",
		Args:              cobra.ArbitraryArgs,
		ValidArgsFunction: actionCompletion,
		RunE:              a.runDispatch,
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return errors.Newf(errors.ErrInvalidInput, "unsupported shell %s", args[0])
		},
	}
}

// actionCompletion completes the action name, then falls back to files
func actionCompletion(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveDefault
	}
	var names []string
	for _, info := range actions.All() {
		names = append(names, info.Action.String()+"\t"+info.Description)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
