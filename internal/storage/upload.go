package storage

import (
	"mime"
	"path"

	"github.com/google/uuid"
)

const anonymousOwner = "anonymous"

// ImageKey builds the object key for an archived scan image:
// scans/<owner>/<uuid><ext>.
func ImageKey(owner, contentType string) string {
	if owner == "" {
		owner = anonymousOwner
	}
	return path.Join("scans", owner, uuid.NewString()+extensionFor(contentType))
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	// mime.ExtensionsByType order depends on the host's mime tables.
	switch mediaType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	}
	exts, err := mime.ExtensionsByType(mediaType)
	if err != nil || len(exts) == 0 {
		return ""
	}
	return exts[0]
}
