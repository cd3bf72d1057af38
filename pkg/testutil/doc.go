// Package testutil provides fakes for testing ydmenu components.
//
// Key components:
//   - FakeRunner: scripted execution.Runner that records every command
//   - FakeDaemon: execution.Runner that behaves like the yandex-disk client
//   - Notifier: records notifications instead of showing them
//   - Clipboard: in-memory clipboard that counts writes
//
// Usage guidelines:
//   - Filesystem behavior is tested against filesystem.NewMemory or t.TempDir
//   - Each test builds its own fakes; nothing here is shared state
package testutil
