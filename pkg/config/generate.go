package config

import (
	"bytes"
	"strings"

	"github.com/arthur-debert/ydmenu/pkg/errors"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Dump formats
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// GenerateConfigContent returns the defaults with every value commented
// out, ready to be saved as a user config file
func GenerateConfigContent() string {
	return commentOutConfigValues(DefaultsContent())
}

// Dump renders the effective configuration
func (c *Config) Dump(format string) (string, error) {
	switch strings.ToLower(format) {
	case "", FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(c.raw); err != nil {
			return "", errors.Wrap(err, errors.ErrConfigParse, "cannot encode configuration as TOML")
		}
		return buf.String(), nil
	case FormatYAML, "yml":
		out, err := yaml.Marshal(c.raw)
		if err != nil {
			return "", errors.Wrap(err, errors.ErrConfigParse, "cannot encode configuration as YAML")
		}
		return string(out), nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown format %q", format)
	}
}

// commentOutConfigValues comments out every assignment, keeping comments,
// blank lines and section headers
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "", strings.HasPrefix(trimmed, "#"):
			result = append(result, line)
		case strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"):
			result = append(result, line)
		default:
			result = append(result, "# "+line)
		}
	}

	return strings.Join(result, "\n")
}
