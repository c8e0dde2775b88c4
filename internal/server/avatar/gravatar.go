// Package avatar derives display avatars for new accounts.
package avatar

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"

	"github.com/dmitrijs2005/devconnector/internal/common"
)

const gravatarBase = "https://www.gravatar.com/avatar/"

// Gravatar returns the Gravatar URL for email: 200px, PG rated, falling back
// to the "mystery person" image.
func Gravatar(email string) string {
	sum := md5.Sum([]byte(common.NormalizeEmail(email)))

	q := url.Values{}
	q.Set("s", "200")
	q.Set("r", "pg")
	q.Set("d", "mm")
	return gravatarBase + hex.EncodeToString(sum[:]) + "?" + q.Encode()
}
