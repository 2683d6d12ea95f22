package domain

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// StyleID enumerates the portrait styles offered at checkout.
type StyleID string

const (
	StyleGangster StyleID = "gangster"
	StyleCartoon  StyleID = "cartoon"
	StyleGirlboss StyleID = "girlboss"
)

// NormalizeStyle maps free-form style input (including older aliases such as
// "disney") onto a supported StyleID. Unknown values fall back to gangster,
// the launch style.
func NormalizeStyle(s string) StyleID {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "girl"):
		return StyleGirlboss
	case strings.Contains(v, "disney"), strings.Contains(v, "cartoon"):
		return StyleCartoon
	default:
		return StyleGangster
	}
}

// Artwork is one styled pet portrait produced by the art generator and
// persisted to the blob store.
type Artwork struct {
	ID         string
	StyleID    StyleID
	PetName    string
	PetType    string
	StorageKey string
	URL        string
	Quality    *QualityReport
	CreatedAt  time.Time
}

// NewArtworkID returns a fresh identifier in the form art_<16 hex chars>.
// The short id doubles as the QR redirect token, so it must stay compact.
func NewArtworkID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return "art_" + hex.EncodeToString(buf)
}
