package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// OpenBrowser opens rawURL in the system browser. The URL is validated
// first so arbitrary strings never reach a shell-adjacent launcher.
func OpenBrowser(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("no website configured")
	}
	if !ValidateURL(rawURL) {
		return fmt.Errorf("invalid website URL: %s", rawURL)
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", rawURL)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
	default:
		cmd = exec.Command("xdg-open", rawURL)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}
