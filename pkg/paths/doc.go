// Package paths provides the managed directory tree for ydmenu.
//
// The tree is rooted at a user chosen directory and always has the same shape:
//
//   - Root: the user directory, e.g. ~/Public
//   - SyncedRoot: Root/yaMedia, the directory the daemon synchronizes
//   - StreamDir: SyncedRoot/Media, where files are streamed to
//
// # Environment Variables
//
//   - YA_DISK_ROOT: location of the tree root (default: ~/Public)
//   - YDMENU_CONFIG_DIR: override the XDG config directory (default: $XDG_CONFIG_HOME/ydmenu)
//
// # Usage
//
//	tree, err := paths.New("")
//	ref, err := tree.Reference("/home/user/Downloads/report.pdf")
//	// ref.Outside == true
package paths
