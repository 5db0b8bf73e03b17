package gitstore

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// SectionKey identifies a config section: either a bare section ("core")
// or a section/subsection pair (("branch", "main")). Comparable, so it can
// be used directly as a map key (spec §3, Config).
type SectionKey struct {
	Section    string
	Subsection string
	HasSub     bool
}

// Config is a mapping from section key to subkey to string value, per
// spec §3. Later-precedence files overwrite earlier ones, key by key.
type Config map[SectionKey]map[string]string

func (c Config) Get(key SectionKey, subkey string) (string, bool) {
	sub, ok := c[key]
	if !ok {
		return "", false
	}
	v, ok := sub[subkey]
	return v, ok
}

var (
	singleStringKeyRe = regexp.MustCompile(`^\[(\S+)\](\s*#.*)?$`)
	doubleStringKeyRe = regexp.MustCompile(`^\[(\S+)\s+"([^\\"]*(?:\\.[^\\"]*)*)"\](\s*#.*)?$`)
	keyValueRe        = regexp.MustCompile(`^([-\w]+)\s*=\s*([^"#\s](?:[^#]*[^#\s])?)(\s*#.*)?$`)
	keyQuotedValueRe  = regexp.MustCompile(`^(\w+)\s*=\s*"([^\\"]*(?:\\.[^\\"]*)*)"(\s*#.*)?$`)
	blankRe           = regexp.MustCompile(`^(#.*)?$`)
)

// decodeEscapes decodes backslash escapes in a quoted config value or
// subsection name, matching Python's "unicode_escape" codec closely enough
// for the escape sequences Git's config grammar actually produces (spec §4.1
// and §8: `merge = refs/heads/a\"b`, `[branch "a\"b"]`).
func decodeEscapes(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i := 0; i < len(runes); i++ {
		if runes[i] != '\\' || i+1 >= len(runes) {
			b.WriteRune(runes[i])
			continue
		}
		i++
		switch runes[i] {
		case '"':
			b.WriteRune('"')
		case '\\':
			b.WriteRune('\\')
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		case 'b':
			b.WriteRune('\b')
		case 'r':
			b.WriteRune('\r')
		default:
			b.WriteRune(runes[i])
		}
	}
	return b.String()
}

// ParseConfig parses the Git config grammar described in spec §4.1 from r,
// merging parsed keys into out (so callers can layer system < global < repo
// by calling this repeatedly in precedence order). path is used only for
// error messages.
func ParseConfig(path string, r io.Reader, out Config) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var current map[string]string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		switch {
		case singleStringKeyRe.MatchString(line):
			m := singleStringKeyRe.FindStringSubmatch(line)
			key := SectionKey{Section: m[1]}
			current = out[key]
			if current == nil {
				current = map[string]string{}
				out[key] = current
			}
		case doubleStringKeyRe.MatchString(line):
			m := doubleStringKeyRe.FindStringSubmatch(line)
			key := SectionKey{Section: m[1], Subsection: decodeEscapes(m[2]), HasSub: true}
			current = out[key]
			if current == nil {
				current = map[string]string{}
				out[key] = current
			}
		case blankRe.MatchString(line):
			// blank or comment-only; no-op
		case current != nil && keyValueRe.MatchString(line):
			m := keyValueRe.FindStringSubmatch(line)
			current[m[1]] = decodeEscapes(strings.TrimRight(m[2], " \t"))
		case current != nil && keyQuotedValueRe.MatchString(line):
			m := keyQuotedValueRe.FindStringSubmatch(line)
			current[m[1]] = decodeEscapes(m[2])
		default:
			return &ConfigParseError{Path: path, Line: lineNo}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return nil
}

func parseBoolEnv(varName, value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes", "on", "true", "1":
		return true, nil
	case "no", "off", "false", "0":
		return false, nil
	default:
		return false, &BadEnvValue{Var: varName, Value: value}
	}
}

// ConfigPaths returns the config file paths to read, in precedence order
// (system, user, repo), per spec §4.1 and §6. A path may not exist; callers
// should treat a missing file as contributing nothing.
func ConfigPaths(gitDir string, env func(string) (string, bool)) ([]string, error) {
	get := func(name string) (string, bool) { return env(name) }
	var paths []string

	noSystem := false
	if v, ok := get("GIT_CONFIG_NOSYSTEM"); ok && v != "" {
		b, err := parseBoolEnv("GIT_CONFIG_NOSYSTEM", v)
		if err != nil {
			return nil, err
		}
		noSystem = b
	}
	if !noSystem {
		if v, ok := get("GIT_CONFIG_GLOBAL"); ok && v != "" {
			paths = append(paths, v)
		} else {
			paths = append(paths, "/etc/gitconfig")
		}
	}

	if v, ok := get("GIT_CONFIG_SYSTEM"); ok && v != "" {
		paths = append(paths, v)
	} else if xdg, ok := get("XDG_CONFIG_HOME"); ok && xdg != "" {
		paths = append(paths, filepath.Join(xdg, "git", "config"))
	} else if home, ok := get("HOME"); ok && home != "" {
		paths = append(paths, filepath.Join(home, ".gitconfig"))
	}

	paths = append(paths, filepath.Join(gitDir, "config"))
	return paths, nil
}

// LoadConfig reads and merges the configs named by ConfigPaths, in
// precedence order, into a single Config.
func LoadConfig(gitDir string, env func(string) (string, bool)) (Config, error) {
	paths, err := ConfigPaths(gitDir, env)
	if err != nil {
		return nil, err
	}
	out := Config{}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		err = ParseConfig(p, f, out)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// OSEnv adapts os.LookupEnv to the env lookup function used above.
func OSEnv(name string) (string, bool) {
	return os.LookupEnv(name)
}
