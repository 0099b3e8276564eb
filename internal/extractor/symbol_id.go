package extractor

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// BuildStableTypeID creates a deterministic type ID.
// The ID is derived from the qualified name and a hash of the declaration header,
// so partial declarations of one type get distinct IDs.
func BuildStableTypeID(lang string, unit *TypeUnit) string {
	if unit == nil {
		return ""
	}

	lang = strings.TrimSpace(lang)
	if lang == "" {
		lang = "unknown"
	}

	ns := strings.TrimSpace(unit.Scope.Namespace)
	if ns == "" {
		ns = "_"
	}

	name := strings.TrimSpace(unit.Name)
	if name == "" {
		name = "_"
	}
	if len(unit.Scope.Containers) > 0 {
		name = strings.Join(unit.Scope.Containers, ".") + "." + name
	}
	if unit.Arity > 0 {
		name = fmt.Sprintf("%s`%d", name, unit.Arity)
	}

	header := ""
	if unit.Decl != nil {
		header = canonicalize(unit.Decl.Keyword.Text + " " + strings.Join(unit.Decl.BaseTypes(), ","))
	}

	fingerprint := strings.Join([]string{
		lang,
		ns,
		unit.Kind.String(),
		name,
		unit.Filepath,
		header,
	}, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	short := hex.EncodeToString(sum[:8])
	return fmt.Sprintf("%s/%s:%s:%s:%s", lang, ns, unit.Kind, name, short)
}

func canonicalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return spaceRe.ReplaceAllString(s, " ")
}
