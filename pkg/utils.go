package pkg

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

func GetClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}

	ip := c.ClientIP()

	if ip == "" {
		return "unknown"
	}

	return ip
}

// ResolveFromRoot anchors a relative path at the module root; absolute
// paths pass through untouched.
func ResolveFromRoot(path string) string {
	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(FindProjectRoot(), path)
}

// FindProjectRoot walks up from the working directory until it finds go.mod,
// so migrations resolve regardless of where the process was started.
func FindProjectRoot() string {
	dir, err := os.Getwd()

	if err != nil {
		return "."
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			return "."
		}

		dir = parent
	}
}
