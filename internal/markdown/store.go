package markdown

import (
	"context"
)

// DefaultNamespace is the frontmatter key holding Ghost-specific fields.
const DefaultNamespace = "ghost"

// FileStore reads and writes documents on the local filesystem. A document
// reference is its path.
type FileStore struct {
	Namespace string
}

// NewFileStore returns a store writing under the "ghost" namespace.
func NewFileStore() *FileStore {
	return &FileStore{Namespace: DefaultNamespace}
}

func (s *FileStore) namespace() string {
	if s == nil || s.Namespace == "" {
		return DefaultNamespace
	}
	return s.Namespace
}

// Load parses the document at ref.
func (s *FileStore) Load(ctx context.Context, ref string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	return ParseFile(ref)
}

// WriteRemoteLink records the remote post id and status in the frontmatter.
func (s *FileStore) WriteRemoteLink(ctx context.Context, ref, postID, status string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return SetFields(ref, s.namespace(), map[string]string{
		"post_id": postID,
		"status":  status,
	})
}

// SetExcerpt stores an excerpt under the namespace.
func (s *FileStore) SetExcerpt(ctx context.Context, ref, excerpt string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return SetFields(ref, s.namespace(), map[string]string{"excerpt": excerpt})
}
