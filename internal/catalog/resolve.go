package catalog

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smcclab/video-stitcher/internal/logging"
)

// ResolvedItem is a catalog row whose media file was found on disk.
type ResolvedItem struct {
	ID      string
	Title   string
	Authors string
	Path    string
}

// DisplayTitle returns the catalog title, falling back to a title derived
// from the file name when the catalog entry is blank.
func (i ResolvedItem) DisplayTitle() string {
	if i.Title != "" {
		return i.Title
	}
	return TitleFromFilename(i.Path)
}

// ResolvePath finds the media file for an item ID by probing
// <inputsDir>/<id><ext> for every configured extension. The first existing
// file wins; an empty string means no file was found.
func ResolvePath(inputsDir, id string, extensions []string) string {
	for _, ext := range extensions {
		candidate := filepath.Join(inputsDir, id+ext)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// ResolveSession resolves every row of a session, dropping rows without a
// media file. Dropped rows are logged so missing uploads are visible.
func ResolveSession(inputsDir string, extensions []string, session Session, logger *slog.Logger) []ResolvedItem {
	log := logging.WithComponent(logger, "catalog")

	items := make([]ResolvedItem, 0, len(session.Rows))
	for _, row := range session.Rows {
		path := ResolvePath(inputsDir, row.ID, extensions)
		if path == "" {
			log.Warn("no video found for item",
				logging.String(logging.FieldSession, session.Code),
				logging.String(logging.FieldItem, row.ID),
			)
			continue
		}
		items = append(items, ResolvedItem{
			ID:      row.ID,
			Title:   row.Title,
			Authors: row.Authors,
			Path:    path,
		})
	}
	return items
}
