// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"

	"github.com/jeranaias/vcscope-tui/internal/config"
	"github.com/jeranaias/vcscope-tui/internal/security"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vcscope-setup: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	fmt.Println("vcscope setup")
	fmt.Println("=============")
	fmt.Println()

	// Start from the existing config so re-running keeps earlier answers.
	cfg, err := config.Load()
	if err != nil {
		cfg = config.Default()
	}

	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	defer line.Close()

	cfg.API.BaseURL = promptString(line, "Analysis backend URL", cfg.API.BaseURL)
	cfg.Directory.BaseURL = promptString(line, "Directory URL", cfg.Directory.BaseURL)

	if key := promptSecure("Directory anon key (hidden, empty keeps current)"); key != "" {
		stored, err := encryptKey(line, key)
		if err != nil {
			return err
		}
		cfg.Directory.Key = stored
	}

	cfg.UI.Theme = promptChoice(line, "Theme", []string{"dark", "light", "auto"}, cfg.UI.Theme)
	cfg.Analysis.DefaultStage = promptString(line, "Default funding stage", cfg.Analysis.DefaultStage)
	cfg.Analysis.SaveReports = promptYesNo(line, "Save a Markdown report after each analysis?", cfg.Analysis.SaveReports)
	cfg.Directory.CacheEnabled = promptYesNo(line, "Keep a local copy of the investor directory?", cfg.Directory.CacheEnabled)

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	path, _ := config.ConfigPath()
	fmt.Println()
	fmt.Printf("Configuration written to %s\n", path)
	fmt.Println("Run vcscope to get started.")
	return nil
}

// encryptKey stores the directory key encrypted under the local master key,
// creating the key on first run.
func encryptKey(line *liner.State, key string) (string, error) {
	box, err := security.NewSecretBox()
	if err != nil {
		return "", fmt.Errorf("could not open the keystore: %w", err)
	}

	if !box.Initialized() {
		if box.PasswordProtected() {
			password := promptSecure("Master key password (hidden)")
			if err := box.UnlockWithPassword(password); err != nil {
				return "", err
			}
		} else if promptYesNo(line, "Protect the master key with a password?", false) {
			password := promptSecure("Master key password (hidden)")
			if password == "" {
				return "", fmt.Errorf("empty password")
			}
			if err := box.InitWithPassword(password); err != nil {
				return "", err
			}
		} else if err := box.Init(); err != nil {
			return "", err
		}
	}

	return box.EncryptString(key)
}

// =============================================================================
// INPUT HELPERS
// =============================================================================

// promptString reads a line with a default value shown in brackets.
func promptString(line *liner.State, prompt, defaultVal string) string {
	suffix := ": "
	if defaultVal != "" {
		suffix = " [" + defaultVal + "]: "
	}

	input, err := line.Prompt(prompt + suffix)
	if err != nil {
		return defaultVal
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	return input
}

// promptChoice reads one of a fixed set of values, repeating until the
// answer is valid.
func promptChoice(line *liner.State, prompt string, options []string, defaultVal string) string {
	label := prompt + " (" + strings.Join(options, "/") + ")"
	for {
		got := promptString(line, label, defaultVal)
		for _, opt := range options {
			if strings.EqualFold(got, opt) {
				return opt
			}
		}
		fmt.Printf("Please answer one of: %s\n", strings.Join(options, ", "))
	}
}

// promptYesNo reads a yes/no answer.
func promptYesNo(line *liner.State, prompt string, defaultYes bool) bool {
	suffix := " [Y/n]: "
	if !defaultYes {
		suffix = " [y/N]: "
	}

	input, err := line.Prompt(prompt + suffix)
	if err != nil {
		return defaultYes
	}
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return defaultYes
	}
	return input == "y" || input == "yes"
}

// promptSecure reads sensitive input without echoing.
func promptSecure(prompt string) string {
	fmt.Print(prompt + ": ")
	keyBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(keyBytes))
}
