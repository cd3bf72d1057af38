// Package topics extends a cobra command tree with help topics: markdown
// files shown by "help <topic>" next to the regular command help.
package topics

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/spf13/cobra"
)

// Extension of topic files
const Extension = ".md"

// Topic is one help page
type Topic struct {
	Name    string
	Content string
}

// Renderer formats topic content for the terminal
type Renderer interface {
	Render(content string) string
}

// PlainRenderer returns content unchanged
type PlainRenderer struct{}

func (PlainRenderer) Render(content string) string { return content }

// Manager holds the topics of one command tree
type Manager struct {
	topics   map[string]Topic
	renderer Renderer
}

// Load reads every markdown file in fsys as a topic named after the file.
// A nil renderer prints topics as they are.
func Load(fsys fs.FS, renderer Renderer) (*Manager, error) {
	if renderer == nil {
		renderer = PlainRenderer{}
	}
	m := &Manager{topics: map[string]Topic{}, renderer: renderer}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != Extension {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(path.Base(p), Extension)
		m.topics[name] = Topic{Name: name, Content: string(content)}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFileAccess, "failed to scan help topics")
	}
	return m, nil
}

// Get finds a topic. Flag style names ("--root") match the topic without dashes.
func (m *Manager) Get(name string) (Topic, bool) {
	topic, ok := m.topics[strings.TrimLeft(name, "-")]
	return topic, ok
}

// Names returns the topic names, sorted
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Install replaces the help command of root with one that also knows the
// topics. "help topics" lists them.
func (m *Manager) Install(root *cobra.Command) {
	originalHelp := root.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic.

To see all available help topics:
  ` + root.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range root.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.Names()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				originalHelp(root, nil)
				return
			}
			if args[0] == "topics" {
				m.list(cmd, root.Name())
				return
			}
			if topic, ok := m.Get(args[0]); ok {
				fmt.Fprint(out, m.renderer.Render(topic.Content))
				return
			}
			target, _, err := root.Find(args)
			if err != nil || target == nil {
				target = root
			}
			originalHelp(target, args)
		},
	}

	for _, cmd := range root.Commands() {
		if cmd.Name() == "help" {
			root.RemoveCommand(cmd)
			break
		}
	}
	root.SetHelpCommand(helpCmd)
}

func (m *Manager) list(cmd *cobra.Command, rootName string) {
	out := cmd.OutOrStdout()
	names := m.Names()
	if len(names) == 0 {
		fmt.Fprintln(out, "No help topics available.")
		return
	}
	fmt.Fprintln(out, "Available help topics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", name)
	}
	fmt.Fprintf(out, "\nUse '%s help <topic>' to read about a specific topic.\n", rootName)
}
