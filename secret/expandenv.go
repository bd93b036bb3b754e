package secret

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// LookupFunc returns the value of an environment variable and whether it is
// set. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

const dollarSentinel = "\x00PROBEKIT_SECRET_DOLLAR\x00"

// ExpandEnv expands $VAR and ${VAR} using lookup. Unset variables expand to
// the empty string. `$$` emits a literal `$`. A nil lookup reads nothing.
func ExpandEnv(s string, lookup LookupFunc) string {
	s = strings.ReplaceAll(s, "$$", dollarSentinel)
	s = os.Expand(s, mapping(lookup))
	return strings.ReplaceAll(s, dollarSentinel, "$")
}

// ExpandEnvStrict is like ExpandEnv but errors, naming every missing
// variable, when a `${VAR}` reference is unset.
func ExpandEnvStrict(s string, lookup LookupFunc) (string, error) {
	escaped := strings.ReplaceAll(s, "$$", dollarSentinel)

	missing := make(map[string]struct{})
	for _, match := range envVarPattern.FindAllStringSubmatch(escaped, -1) {
		key := match[1]
		if lookup == nil {
			missing[key] = struct{}{}
			continue
		}
		if _, ok := lookup(key); !ok {
			missing[key] = struct{}{}
		}
	}
	if len(missing) > 0 {
		keys := make([]string, 0, len(missing))
		for k := range missing {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return "", fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(keys, ", "))
	}

	return ExpandEnv(s, lookup), nil
}

func mapping(lookup LookupFunc) func(string) string {
	return func(key string) string {
		if lookup == nil {
			return ""
		}
		v, _ := lookup(key)
		return v
	}
}
