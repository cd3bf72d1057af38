// Package filesystem provides filesystem implementations for ydmenu.
//
// This package contains the FS interface with an OS and an afero backed
// implementation, plus the no-overwrite copy and move operations used by
// the executors.
package filesystem
