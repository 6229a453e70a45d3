package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocaltimePath is the symlink consulted by DetectTimeZone.
const LocaltimePath = "/etc/localtime"

// DetectTimeZone returns the IANA zone name of the host. It reads the
// zoneinfo symlink target of localtime, then falls back to time.Local and
// finally to UTC.
func DetectTimeZone(localtime string) string {
	if target, err := os.Readlink(localtime); err == nil {
		target = filepath.ToSlash(target)
		if i := strings.Index(target, "zoneinfo/"); i >= 0 {
			name := target[i+len("zoneinfo/"):]
			if _, err := time.LoadLocation(name); err == nil {
				return name
			}
		}
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		return name
	}
	return "UTC"
}
