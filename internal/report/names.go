package report

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/unicode/norm"
)

// maxNameBytes keeps room for a version suffix and extension under the
// common 255-byte file name limit.
const maxNameBytes = 200

// SanitizeName turns a rendered invocation such as fib(7) into a portable
// file name.
func SanitizeName(s string) string {
	s = norm.NFC.String(s)
	var sb strings.Builder
	for _, r := range s {
		switch {
		case strings.ContainsRune(`<>:"/\|?*`, r), unicode.IsControl(r), r == utf8.RuneError:
			sb.WriteByte('_')
		default:
			sb.WriteRune(r)
		}
	}
	name := strings.Trim(sb.String(), " .")
	for len(name) > maxNameBytes {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	if name == "" {
		return "_"
	}
	return name
}

// createArtifact creates dir/base+ext. Unless overwrite is set, an existing
// file is never replaced: base_v2+ext, base_v3+ext, ... are tried instead.
func createArtifact(dir, base, ext string, overwrite bool) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create report directory %s", dir)
	}
	if overwrite {
		return os.Create(filepath.Join(dir, base+ext))
	}
	for v := 1; ; v++ {
		name := base + ext
		if v > 1 {
			name = base + "_v" + strconv.Itoa(v) + ext
		}
		f, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, err
		}
	}
}

// writeArtifact writes data through createArtifact and returns the path.
func writeArtifact(dir, base, ext string, overwrite bool, data []byte) (string, error) {
	f, err := createArtifact(dir, base, ext, overwrite)
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return f.Name(), nil
}
