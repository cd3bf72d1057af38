// Package conflict renames input files whose names are already taken in the
// managed tree and hands back a ticket that undoes the rename.
package conflict

import (
	"path/filepath"

	"github.com/arthur-debert/ydmenu/pkg/actions"
	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/arthur-debert/ydmenu/pkg/filesystem"
	"github.com/arthur-debert/ydmenu/pkg/naming"
	"github.com/arthur-debert/ydmenu/pkg/paths"
	"github.com/rs/zerolog"
)

// RenameTicket records one rename. The zero Renamed value means nothing was
// renamed. Restore is safe to call any number of times.
type RenameTicket struct {
	Original string
	Renamed  string

	fs filesystem.FS
}

// Path returns where the file lives now
func (t RenameTicket) Path() string {
	if t.Renamed != "" {
		return t.Renamed
	}
	return t.Original
}

// Changed reports whether a rename happened
func (t RenameTicket) Changed() bool {
	return t.Renamed != "" && t.Renamed != t.Original
}

// Keep returns a ticket for the same rename whose Restore does nothing.
// Used when the renamed file is consumed by the action.
func (t RenameTicket) Keep() RenameTicket {
	t.fs = nil
	return t
}

// Restore moves the file back to its original name when something is still
// at the renamed path. It never replaces an entry at the original path.
func (t RenameTicket) Restore() error {
	if !t.Changed() || t.fs == nil {
		return nil
	}
	if !filesystem.Exists(t.fs, t.Renamed) {
		return nil
	}
	if err := filesystem.Move(t.fs, t.Renamed, t.Original); err != nil {
		return errors.Wrapf(err, errors.ErrRenameConflict, "cannot restore %s", filepath.Base(t.Original)).
			WithDetail("original", t.Original).
			WithDetail("renamed", t.Renamed)
	}
	return nil
}

// Resolver decides and performs conflict renames
type Resolver struct {
	fs     filesystem.FS
	tree   *paths.Tree
	logger zerolog.Logger
}

// NewResolver creates a Resolver over the given tree
func NewResolver(fsys filesystem.FS, tree *paths.Tree, logger zerolog.Logger) *Resolver {
	return &Resolver{
		fs:     fsys,
		tree:   tree,
		logger: logger.With().Str("component", "conflict").Logger(),
	}
}

// Claims holds the stream names already promised to earlier items of one
// batch. Those names count as taken even though nothing is there yet.
type Claims map[string]bool

// NeedsRename reports whether ref must be renamed before running action.
// The name must be taken in the stream dir or the synced root, and the action
// must either put the file in the stream or publish a file from outside.
func (r *Resolver) NeedsRename(ref paths.FileReference, action actions.Action) bool {
	return r.needsRename(ref, action, nil)
}

func (r *Resolver) needsRename(ref paths.FileReference, action actions.Action, claims Claims) bool {
	if !filesystem.Exists(r.fs, ref.Path) {
		return false
	}
	taken := claims[ref.Name] ||
		filesystem.Exists(r.fs, filepath.Join(r.tree.StreamDir(), ref.Name)) ||
		filesystem.Exists(r.fs, filepath.Join(r.tree.SyncedRoot(), ref.Name))
	if !taken {
		return false
	}
	return action.IsFileStream() || (action.IsPublish() && ref.Outside)
}

// Resolve renames ref in place when required and returns the ticket that
// undoes it. Without a conflict the ticket carries the original path.
func (r *Resolver) Resolve(ref paths.FileReference, action actions.Action) (RenameTicket, error) {
	return r.ResolveClaimed(ref, action, nil)
}

// ResolveClaimed is Resolve for one item of a batch. Names in claims are
// avoided, and the name finally used by ref is added to claims.
func (r *Resolver) ResolveClaimed(ref paths.FileReference, action actions.Action, claims Claims) (RenameTicket, error) {
	ticket := RenameTicket{Original: ref.Path, fs: r.fs}
	if !r.needsRename(ref, action, claims) {
		claims.claim(ref.Name)
		return ticket, nil
	}

	name, err := naming.UniqueAvoiding(r.fs, ref.Name, claims, r.tree.CollisionDirs(ref)...)
	if err != nil {
		return ticket, errors.Wrapf(err, errors.ErrRenameConflict, "no free name for %s", ref.Name)
	}
	renamed := filepath.Join(ref.Dir, name)

	if err := filesystem.Move(r.fs, ref.Path, renamed); err != nil {
		return ticket, errors.Wrapf(err, errors.ErrRenameConflict, "cannot rename %s to %s", ref.Name, name).
			WithDetail("path", ref.Path)
	}
	claims.claim(name)

	r.logger.Info().
		Str("from", ref.Path).
		Str("to", renamed).
		Str("action", action.String()).
		Msg("Renamed to avoid name conflict")

	ticket.Renamed = renamed
	return ticket, nil
}

func (c Claims) claim(name string) {
	if c != nil {
		c[name] = true
	}
}
