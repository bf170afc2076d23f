package document

import "path/filepath"

// Store loads Documents relative to a repository root and caches them for the
// duration of a verification run. Documents are immutable, so the cache is a
// pure optimization with no correctness implications.
type Store struct {
	root string
	docs map[string]*Document
}

// NewStore creates a Store rooted at the given directory.
func NewStore(root string) *Store {
	return &Store{
		root: root,
		docs: make(map[string]*Document),
	}
}

// Root returns the repository root.
func (s *Store) Root() string {
	return s.root
}

// Get loads the Document at the given root-relative path, reusing a
// previously loaded copy when available.
func (s *Store) Get(rel string) (*Document, error) {
	if doc, ok := s.docs[rel]; ok {
		return doc, nil
	}
	doc, err := Load(filepath.Join(s.root, rel))
	if err != nil {
		return nil, err
	}
	// Keep the relative path as the logical identifier for diagnostics.
	doc.Path = rel
	s.docs[rel] = doc
	return doc, nil
}
