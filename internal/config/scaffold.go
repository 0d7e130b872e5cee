package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ScaffoldProject creates organiser.toml and the data directory in dir and
// makes sure the data directory is excluded from version control. Files that
// already exist are left untouched. Returns the list of created or modified
// paths.
func ScaffoldProject(dir string) ([]string, error) {
	var created []string

	// organiser.toml
	tomlPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(tomlPath); os.IsNotExist(err) {
		if _, initErr := InitFile(dir); initErr != nil {
			return created, initErr
		}
		created = append(created, tomlPath)
	}

	// .organiser/ data directory
	dataDir := filepath.Join(dir, DefaultDataDir)
	if _, err := os.Stat(dataDir); os.IsNotExist(err) {
		if mkErr := os.MkdirAll(dataDir, 0755); mkErr != nil {
			return created, fmt.Errorf("scaffold: create %s: %w", dataDir, mkErr)
		}
		created = append(created, dataDir)
	}

	// .gitignore: personal data never belongs in version control
	gitignorePath := filepath.Join(dir, ".gitignore")
	changed, err := ensureLine(gitignorePath, DefaultDataDir+"/")
	if err != nil {
		return created, err
	}
	if changed {
		created = append(created, gitignorePath)
	}

	return created, nil
}

// ensureLine appends line to the file at path unless it is already there,
// creating the file if needed. It reports whether the file was written.
func ensureLine(path, line string) (bool, error) {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, fmt.Errorf("scaffold: read %s: %w", path, err)
	}
	content := string(existing)
	if containsLine(content, line) {
		return false, nil
	}
	if content != "" && !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content+line+"\n"), 0644); err != nil {
		return false, fmt.Errorf("scaffold: write %s: %w", path, err)
	}
	return true, nil
}

func containsLine(content, line string) bool {
	for _, l := range strings.Split(content, "\n") {
		if strings.TrimSpace(l) == line {
			return true
		}
	}
	return false
}
