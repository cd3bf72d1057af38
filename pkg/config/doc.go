// Package config loads ydmenu settings.
//
// Sources are layered, later ones winning:
//
//  1. the embedded defaults (embedded/defaults.toml)
//  2. the user file: --config, or config.toml / config.yaml in the
//     configuration directory
//  3. YA_DISK_ROOT, then YDMENU_<SECTION>_<KEY> environment variables
//  4. explicit overrides, usually from command line flags
package config
