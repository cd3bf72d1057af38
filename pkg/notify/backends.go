package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/ydmenu/pkg/execution"
	"github.com/arthur-debert/ydmenu/pkg/ui"
	"github.com/arthur-debert/ydmenu/pkg/ui/styles"
)

// Backend names accepted by Select
const (
	BackendAuto       = "auto"
	BackendKDialog    = "kdialog"
	BackendNotifySend = "notify-send"
	BackendConsole    = "console"
)

// launchTimeout bounds how long a notification helper may take to return
const launchTimeout = 10 * time.Second

// KDialog shows passive popups through kdialog
type KDialog struct {
	Runner execution.Runner
}

func (k *KDialog) Name() string { return BackendKDialog }

func (k *KDialog) Available() bool {
	_, err := k.Runner.LookPath("kdialog")
	return err == nil
}

func (k *KDialog) Show(ctx context.Context, title, icon string, n Notification) error {
	_, err := k.Runner.Run(ctx, execution.Command{
		Name: "kdialog",
		Args: []string{
			"--icon", icon,
			"--title", title,
			"--passivepopup", n.Message, strconv.Itoa(seconds(n.Timeout)),
		},
		Timeout: launchTimeout,
	})
	return err
}

// NotifySend shows notifications through libnotify's notify-send
type NotifySend struct {
	Runner execution.Runner
}

func (s *NotifySend) Name() string { return BackendNotifySend }

func (s *NotifySend) Available() bool {
	_, err := s.Runner.LookPath("notify-send")
	return err == nil
}

func (s *NotifySend) Show(ctx context.Context, title, icon string, n Notification) error {
	urgency := "normal"
	switch n.Severity {
	case Error:
		urgency = "critical"
	case Info:
		urgency = "low"
	}
	args := []string{
		"--app-name", title,
		"--expire-time", strconv.FormatInt(n.Timeout.Milliseconds(), 10),
		"--urgency", urgency,
	}
	if icon != "" {
		args = append(args, "--icon", icon)
	}
	args = append(args, title, n.Message)

	_, err := s.Runner.Run(ctx, execution.Command{
		Name:    "notify-send",
		Args:    args,
		Timeout: launchTimeout,
	})
	return err
}

// Console prints notifications to a terminal, for runs outside a desktop session
type Console struct {
	Out    io.Writer
	Format ui.Format
}

func (c *Console) Name() string { return BackendConsole }

func (c *Console) Available() bool { return c.Out != nil }

func (c *Console) Show(_ context.Context, title, _ string, n Notification) error {
	format := ui.Resolve(c.Format, c.Out)
	body := ui.RenderMarkup(n.Message, format)
	header := fmt.Sprintf("[%s] %s", n.Severity, title)
	if format == ui.FormatTerminal {
		header = styles.ForSeverity(n.Severity.String()).Render(header)
		body = styles.GetStyle("Body").Render(body)
	} else {
		body = indent(body, "  ")
	}
	_, err := fmt.Fprintf(c.Out, "%s\n%s\n", header, body)
	return err
}

// Select builds the backend chain for name. Auto prefers kdialog on KDE and
// notify-send elsewhere. The console backend always closes the chain.
func Select(name string, runner execution.Runner, out io.Writer) ([]Backend, error) {
	kdialog := &KDialog{Runner: runner}
	notifySend := &NotifySend{Runner: runner}
	console := &Console{Out: out}

	switch strings.ToLower(name) {
	case "", BackendAuto:
		if strings.Contains(strings.ToUpper(os.Getenv("XDG_CURRENT_DESKTOP")), "KDE") {
			return []Backend{kdialog, notifySend, console}, nil
		}
		return []Backend{notifySend, kdialog, console}, nil
	case BackendKDialog:
		return []Backend{kdialog, console}, nil
	case BackendNotifySend:
		return []Backend{notifySend, console}, nil
	case BackendConsole:
		return []Backend{console}, nil
	default:
		return nil, fmt.Errorf("unknown notification backend: %s", name)
	}
}

func seconds(d time.Duration) int {
	s := int(d / time.Second)
	if s < 1 {
		return 1
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
