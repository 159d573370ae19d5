package discovery

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// PgPassEntry represents a line in a .pgpass file. Every field but the
// password may be the "*" wildcard.
type PgPassEntry struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

// PgPassPath returns $PGPASSFILE, falling back to ~/.pgpass
func PgPassPath() string {
	if p := os.Getenv("PGPASSFILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".pgpass")
}

// ParsePgPass reads the password file at path. A missing file yields no
// entries; a file readable by group or others is rejected like libpq does.
func ParsePgPass(path string) ([]PgPassEntry, error) {
	if path == "" {
		return nil, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o077 != 0 {
		return nil, fmt.Errorf("%s has insecure permissions %v, must be 0600", path, info.Mode().Perm())
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	var entries []PgPassEntry
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if entry, ok := parsePgPassLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries, scanner.Err()
}

// parsePgPassLine splits hostname:port:database:username:password,
// honouring the \: and \\ escapes.
func parsePgPassLine(line string) (PgPassEntry, bool) {
	parts := make([]string, 0, 5)
	var current strings.Builder
	escaped := false

	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case escaped:
			current.WriteByte(ch)
			escaped = false
		case ch == '\\':
			escaped = true
		case ch == ':':
			parts = append(parts, current.String())
			current.Reset()
		default:
			current.WriteByte(ch)
		}
	}
	parts = append(parts, current.String())

	if len(parts) != 5 {
		return PgPassEntry{}, false
	}
	if parts[1] != "*" {
		if p, err := strconv.Atoi(parts[1]); err != nil || p < 1 || p > 65535 {
			return PgPassEntry{}, false
		}
	}

	return PgPassEntry{
		Host:     parts[0],
		Port:     parts[1],
		Database: parts[2],
		User:     parts[3],
		Password: parts[4],
	}, true
}

// FindPassword returns the password of the first entry matching the
// connection, or "" when none does.
func FindPassword(entries []PgPassEntry, host string, port int, database, user string) string {
	for _, e := range entries {
		if matches(e.Host, host) &&
			matches(e.Port, strconv.Itoa(port)) &&
			matches(e.Database, database) &&
			matches(e.User, user) {
			return e.Password
		}
	}
	return ""
}

func matches(pattern, value string) bool {
	return pattern == "*" || pattern == value
}
