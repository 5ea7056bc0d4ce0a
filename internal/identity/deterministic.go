package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// DocumentUUID identifies a source document by its path, so regenerating the
// same tree yields stable page IDs.
func DocumentUUID(path string) uuid.UUID {
	return UUID("go-specdoc:document:" + strings.TrimSpace(path))
}

// PageUUID identifies a rendered page by document ID and output name.
func PageUUID(documentID uuid.UUID, outputName string) uuid.UUID {
	return UUID("go-specdoc:page:" + documentID.String() + ":" + strings.ToLower(strings.TrimSpace(outputName)))
}

// ThemeUUID identifies a theme by its manifest path.
func ThemeUUID(themePath string) uuid.UUID {
	return UUID("go-specdoc:theme:" + strings.TrimSpace(themePath))
}
