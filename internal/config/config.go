// Package config provides repository configuration management,
// including reading and writing mergeit configuration files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// configFileName lives under .git so the config never ends up in a commit.
const configFileName = ".mergeit_config"

// RepoConfig represents the repository configuration
type RepoConfig struct {
	// DefaultSide is used by resolve-all when no side flag is given: "local", "base" or "remote"
	DefaultSide *string `json:"defaultSide,omitempty"`
	// AutoStage stages a fully resolved file without prompting
	AutoStage *bool `json:"autoStage,omitempty"`
	// Editor overrides GIT_EDITOR/EDITOR for manual hunk edits
	Editor *string `json:"editor,omitempty"`
}

// GetRepoConfig reads the repository configuration
func GetRepoConfig(repoRoot string) (*RepoConfig, error) {
	configPath := filepath.Join(repoRoot, ".git", configFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		// Config doesn't exist - return default
		return &RepoConfig{}, nil
	}

	var config RepoConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse repo config: %w", err)
	}

	return &config, nil
}

// WriteRepoConfig persists the repository configuration
func WriteRepoConfig(repoRoot string, config *RepoConfig) error {
	configPath := filepath.Join(repoRoot, ".git", configFileName)
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal repo config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write repo config: %w", err)
	}
	return nil
}

// GetDefaultSide returns the configured resolve-all side, or "" when unset
func GetDefaultSide(repoRoot string) (string, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return "", err
	}
	if config.DefaultSide != nil {
		return *config.DefaultSide, nil
	}
	return "", nil
}

// GetAutoStage returns whether resolved files should be staged without prompting
func GetAutoStage(repoRoot string) (bool, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return false, err
	}
	return config.AutoStage != nil && *config.AutoStage, nil
}

// GetEditor returns the configured editor override, or "" when unset
func GetEditor(repoRoot string) (string, error) {
	config, err := GetRepoConfig(repoRoot)
	if err != nil {
		return "", err
	}
	if config.Editor != nil {
		return *config.Editor, nil
	}
	return "", nil
}
