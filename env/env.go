package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	cenv "github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// DotenvFiles returns the candidate .env files for the given environment name,
// most specific first.
func DotenvFiles(name string) []string {
	files := make([]string, 0, 2)
	if name = strings.TrimSpace(name); name != "" {
		files = append(files, ".env."+strings.ToLower(name))
	}
	return append(files, ".env")
}

// Load reads the first .env file that exists. Variables already present in the
// process environment are never overwritten. It returns the path that was
// loaded, or "" when none of the candidates exist.
func Load(paths ...string) (string, error) {
	for _, p := range paths {
		err := godotenv.Load(p)
		if err == nil {
			return p, nil
		}
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		return "", fmt.Errorf("load %s: %w", p, err)
	}
	return "", nil
}

// Parse fills the struct pointed to by v from the environment using `env` and
// `envDefault` struct tags.
func Parse(v any) error {
	if err := cenv.Parse(v); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Lookup returns the trimmed value of k, or d when it is unset or blank.
func Lookup(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}
