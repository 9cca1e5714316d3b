package control

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const devnodeWhitelist = "#+-.:=@_"

// WhitelistedDevnodeChar reports whether c may pass through
// EncodeDevnodeName unescaped, either because it's in the default
// whitelist or because it's in the caller-supplied extra set.
func WhitelistedDevnodeChar(c rune, extra string) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c >= 'a' && c <= 'z':
		return true
	case c >= 'A' && c <= 'Z':
		return true
	case strings.ContainsRune(devnodeWhitelist, c):
		return true
	case extra != "" && strings.ContainsRune(extra, c):
		return true
	default:
		return false
	}
}

// EncodeDevnodeName escapes arg for use as a /dev node or devlink
// component. Characters outside [0-9A-Za-z#+-.:=@_] are replaced with
// \xHH (lowercase hex); multi-byte UTF-8 sequences pass through
// unchanged. A NUL byte truncates the input, matching the reference
// implementation's "nul-terminated string" handling. Returns an error
// if arg is empty.
func EncodeDevnodeName(arg string) (string, error) {
	if arg == "" {
		return "", fmt.Errorf("control: empty encode string")
	}

	if nul := strings.IndexByte(arg, 0); nul >= 0 {
		arg = arg[:nul]
	}

	var b strings.Builder
	b.Grow(len(arg) * 4)

	for _, c := range arg {
		switch {
		case utf8.RuneLen(c) > 1:
			b.WriteRune(c)
		case c == '\\' || !WhitelistedDevnodeChar(c, ""):
			fmt.Fprintf(&b, "\\x%02x", byte(c))
		default:
			b.WriteRune(c)
		}
	}

	return b.String(), nil
}
