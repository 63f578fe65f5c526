package sifibridge

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the library version. The bridge executable must report the same
// major and minor version during the startup handshake.
const Version = "1.2.0"

// parseMajorMinor extracts the numeric major and minor components of a
// dotted version string ("1.2.3" -> 1, 2).
func parseMajorMinor(v string) (major, minor int, err error) {
	parts := strings.SplitN(strings.TrimSpace(v), ".", 3)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("malformed version %q", v)
	}
	major, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed version %q: %w", v, err)
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed version %q: %w", v, err)
	}
	return major, minor, nil
}

// sameMajorMinor reports whether two version strings agree on major.minor.
// Unparseable versions never match.
func sameMajorMinor(a, b string) bool {
	am, an, err := parseMajorMinor(a)
	if err != nil {
		return false
	}
	bm, bn, err := parseMajorMinor(b)
	if err != nil {
		return false
	}
	return am == bm && an == bn
}

// CompatibleVersion reports whether a bridge executable version is usable with
// this library (equal major and minor, patch level ignored).
func CompatibleVersion(bridgeVersion string) bool {
	return sameMajorMinor(bridgeVersion, Version)
}
