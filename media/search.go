package media

import (
	"context"
	"fmt"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// Search lists the assets under the configured folder and returns the
// public identifiers whose names match the search term. An empty term
// matches every asset in the folder.
func (s *Store) Search(ctx context.Context, term string) ([]string, error) {
	query := &storage.Query{Prefix: s.folder + "/"}
	it := s.client.Bucket(s.bucket).Objects(ctx, query)

	ids := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("media: listing assets: %w", err)
		}

		id := publicID(attrs.Name, s.folder)
		if matches(id, term) {
			ids = append(ids, id)
		}
	}

	return ids, nil
}

// publicID derives the asset's public identifier from its object path:
// the folder prefix and file extension are stripped.
func publicID(objectPath, folder string) string {
	name := strings.TrimPrefix(objectPath, folder+"/")
	return strings.TrimSuffix(name, path.Ext(name))
}

// matches reports whether an identifier satisfies the search term,
// case-insensitively. An empty term matches everything.
func matches(id, term string) bool {
	if term == "" {
		return true
	}

	return strings.Contains(strings.ToLower(id), strings.ToLower(term))
}
