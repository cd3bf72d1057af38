// Package executor runs a classified action over its input paths.
//
// OneByOne handles publish and unpublish one path at a time. Batch copies or
// moves every path into the stream directory and syncs once. ClipboardOnly
// saves the clipboard as a note in the stream and optionally publishes it.
// All three record per-item outcomes, never let one item abort the others,
// and report through the session notifier.
package executor
