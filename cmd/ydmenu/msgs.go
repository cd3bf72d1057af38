package ydmenu

// Message constants
const (
	MsgRootShort = "Yandex.Disk context menu actions"
	MsgRootLong  = `ydmenu runs the Yandex.Disk actions offered in the file manager's context menu.

Service menus call it as
  ydmenu <action> [paths...]

Run "ydmenu actions" for the list of actions.`

	MsgRunShort   = "Run a context menu action on paths"
	MsgRunExample = `  ydmenu run FileAddToStream ~/Downloads/report.pdf
  ydmenu PublishToYandexCom ~/Public/yaMedia/photo.jpg`

	MsgStatusShort    = "Show the daemon status and the managed directories"
	MsgActionsShort   = "List the available actions"
	MsgGenConfigShort = "Print the effective configuration"
	MsgGenConfigLong  = `Print the configuration ydmenu would use, after merging the defaults,
the user configuration file and the environment.

With --defaults the commented default file is printed instead, ready to be
saved as ~/.config/ydmenu/config.toml.`
	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgCompletionLong  = `Generate a completion script for bash, zsh, fish or powershell.

  source <(ydmenu completion bash)`

	MsgFlagVerbose = "Increase verbosity (-v info, -vv debug, -vvv trace)"
	MsgFlagConfig  = "Configuration file (toml or yaml)"
	MsgFlagRoot    = "Root of the managed tree (overrides disk.root)"
	MsgFlagFormat  = "Output format: auto, term, text or json"

	MsgErrNoAction        = "no action specified"
	MsgErrLoadConfig      = "failed to load configuration: %w"
	MsgNotifyConfigFailed = "<b>ydmenu cannot start</b>:\n%s"
	MsgActionsHeading     = "# Actions\n\n| Action | Strategy | Description |\n|---|---|---|\n"
	MsgActionsRow         = "| %s | %s | %s |\n"
	MsgActionsFootnote    = "\nService menus live in `%s`.\n"
)
