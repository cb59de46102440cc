package main

import (
	"bufio"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// promptYesNo prompts the user for a yes/no answer. Returns the default
// if the user enters nothing.
func promptYesNo(scanner *bufio.Scanner, prompt string, defaultYes bool) bool {
	suffix := " [y/N]: "
	if defaultYes {
		suffix = " [Y/n]: "
	}
	fmt.Fprintf(os.Stderr, "%s%s", prompt, suffix)

	if !scanner.Scan() {
		return defaultYes
	}

	val := strings.TrimSpace(strings.ToLower(scanner.Text()))
	switch val {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultYes
	}
}

// validateHost checks a listen host: an IP address or a plain hostname.
func validateHost(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("host is required")
	}
	if strings.ContainsAny(s, " \t") {
		return fmt.Errorf("host must not contain spaces")
	}
	if net.ParseIP(s) != nil {
		return nil
	}
	for _, label := range strings.Split(s, ".") {
		if label == "" {
			return fmt.Errorf("invalid hostname %q", s)
		}
	}
	return nil
}

// validatePort checks a port entered as text.
func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	return nil
}

// validateDatabaseURL checks a postgres connection URL.
func validateDatabaseURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("database URL is required")
	}
	if !strings.HasPrefix(s, "postgres://") && !strings.HasPrefix(s, "postgresql://") {
		return fmt.Errorf("URL must start with postgres:// or postgresql://")
	}
	return nil
}
