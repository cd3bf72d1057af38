package ydmenu

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/arthur-debert/ydmenu/pkg/daemon"
	"github.com/arthur-debert/ydmenu/pkg/ui"
	"github.com/arthur-debert/ydmenu/pkg/ui/styles"
	"github.com/spf13/cobra"
)

// statusReport is what "ydmenu status" prints
type statusReport struct {
	Status      string   `json:"status"`
	Idle        bool     `json:"idle"`
	Root        string   `json:"root"`
	SyncedRoot  string   `json:"synced_root"`
	StreamDir   string   `json:"stream_dir"`
	LogFile     string   `json:"log_file"`
	ConfigFiles []string `json:"config_files"`
}

func (a *App) newStatusCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat, err := ui.ParseFormat(format)
			if err != nil {
				return err
			}

			env, err := a.flags.environment(a.deps)
			if err != nil {
				return fmt.Errorf(MsgErrLoadConfig, err)
			}
			defer func() { _ = env.close() }()

			status := env.client.Status(cmd.Context())
			report := statusReport{
				Status:      status,
				Idle:        daemon.IsIdle(status),
				Root:        env.tree.Root(),
				SyncedRoot:  env.tree.SyncedRoot(),
				StreamDir:   env.tree.StreamDir(),
				LogFile:     env.tree.LogFilePath(),
				ConfigFiles: env.cfg.Files,
			}

			out := cmd.OutOrStdout()
			return renderStatus(out, report, ui.Resolve(outFormat, out))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "auto", MsgFlagFormat)
	return cmd
}

func renderStatus(w io.Writer, r statusReport, format ui.Format) error {
	if format == ui.FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	statusStyle := styles.GetStyle("Success")
	if !r.Idle {
		statusStyle = styles.GetStyle("Warning")
	}
	label := func(s string) string {
		s = fmt.Sprintf("%-9s", s)
		if format == ui.FormatTerminal {
			return styles.GetStyle("Muted").Render(s)
		}
		return s
	}
	status := r.Status
	if format == ui.FormatTerminal {
		status = statusStyle.Render(status)
	}

	fmt.Fprintf(w, "%s %s\n", label("Status:"), status)
	fmt.Fprintf(w, "%s %s\n", label("Root:"), r.Root)
	fmt.Fprintf(w, "%s %s\n", label("Synced:"), r.SyncedRoot)
	fmt.Fprintf(w, "%s %s\n", label("Stream:"), r.StreamDir)
	fmt.Fprintf(w, "%s %s\n", label("Log:"), r.LogFile)
	for _, file := range r.ConfigFiles {
		fmt.Fprintf(w, "%s %s\n", label("Config:"), file)
	}
	return nil
}
