// Package demo provides a self-contained target host: an application with a
// main window, its web contents and a handful of app modules. It backs
// "bridge serve" and "bridge demo".
package demo

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

const logPrefix = "demo:profile"

// Profile describes the static state the demo host starts with.
type Profile struct {
	Name    string            `json:"name"`
	Version string            `json:"version"`
	Locale  string            `json:"locale"`
	Paths   map[string]string `json:"paths"`
	Window  WindowProfile     `json:"window"`
	Content ContentProfile    `json:"content"`
}

// WindowProfile is the initial state of the main window.
type WindowProfile struct {
	Title  string `json:"title"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ContentProfile is the initial state of the main window's web contents.
type ContentProfile struct {
	URL string `json:"url"`
}

// LoadProfile loads a profile from the first readable path. Paths passed in
// are tried first, then BRIDGE_DEMO_PROFILE, then config/demo.json. Missing
// fields keep their default values.
func LoadProfile(paths ...string) (*Profile, error) {
	all := make([]string, 0, len(paths)+2)
	for _, p := range paths {
		if p != "" {
			all = append(all, p)
		}
	}
	if envPath := os.Getenv("BRIDGE_DEMO_PROFILE"); envPath != "" {
		all = append(all, envPath)
	}
	all = append(all, "config/demo.json")

	for _, p := range all {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}

		prof := DefaultProfile()
		if err := json.Unmarshal(data, prof); err != nil {
			return nil, fmt.Errorf("%s - failed to parse profile %s: %w", logPrefix, p, err)
		}

		slog.Info(fmt.Sprintf("%s - Loaded demo profile from %s", logPrefix, p))
		return prof, nil
	}

	slog.Info(fmt.Sprintf("%s - Using default demo profile", logPrefix))
	return DefaultProfile(), nil
}

// DefaultProfile returns the built-in profile.
func DefaultProfile() *Profile {
	return &Profile{
		Name:    "bridge-demo",
		Version: "1.0.0",
		Locale:  "en-US",
		Paths: map[string]string{
			"home":     "/home/demo",
			"temp":     os.TempDir(),
			"userData": "/home/demo/.config/bridge-demo",
		},
		Window: WindowProfile{
			Title:  "Bridge Demo",
			Width:  800,
			Height: 600,
		},
		Content: ContentProfile{
			URL: "about:blank",
		},
	}
}
