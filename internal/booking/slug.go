package booking

import (
	"strings"

	"github.com/google/uuid"
	gosimple "github.com/gosimple/slug"
)

// DeriveSlug builds a unique URL-safe identifier from the given parts plus
// a short random suffix. It is called explicitly by the creation paths for
// doctors and appointments; slugs never change after assignment.
func DeriveSlug(parts ...string) string {
	base := gosimple.Make(strings.Join(parts, "-"))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	if base == "" {
		return suffix
	}
	return base + "-" + suffix
}
