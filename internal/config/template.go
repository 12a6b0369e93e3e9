package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const template = `# uclint configuration
[project]
module = "Assembly-CSharp"
exclude = ["Library", "Temp", "obj", "Logs", "Packages"]
# extra YAML catalogs describing referenced modules
catalogs = []
builtin_catalogs = true

[targets]
behavior = "UnityEngine.MonoBehaviour, UnityEngine"
expose = "UnityEngine.SerializeField, UnityEngine"
description = "UnityEngine.TooltipAttribute, UnityEngine"

[rules.HasToolTip]
enabled = true
severity = "warning"

[rules.UCNonEmptyTooltip]
enabled = true
severity = "warning"

[rules.UCPrivateField]
enabled = true
severity = "warning"

[analysis]
# 0 = number of CPUs
jobs = 0
# 0 = no limit
max_diagnostics = 0
baseline = ".uclint-baseline"
`

// Template returns the content written by "uclint init".
func Template() string {
	return template
}

// WriteDefault creates dir/uclint.toml. An existing file is kept unless
// force is set.
func WriteDefault(dir string, force bool) (string, error) {
	path := filepath.Join(dir, FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return path, fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return path, fmt.Errorf("failed to stat %q: %w", path, err)
		}
	}
	if err := os.WriteFile(path, []byte(template), 0o600); err != nil {
		return path, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
