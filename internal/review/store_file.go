package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cenkalti/backoff/v4"
)

// FileBatchStore keeps the outstanding list in a JSON document under StorageKey.
// Other keys in the document are preserved.
type FileBatchStore struct {
	path string
	mu   sync.Mutex
}

// NewFileBatchStore stores the list at path.
func NewFileBatchStore(path string) *FileBatchStore {
	return &FileBatchStore{path: path}
}

var _ BatchStore = (*FileBatchStore)(nil)

func (s *FileBatchStore) read() (map[string]json.RawMessage, error) {
	doc := map[string]json.RawMessage{}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		// a corrupt file will not fix itself
		return nil, backoff.Permanent(fmt.Errorf("decode %s: %w", s.path, err))
	}
	return doc, nil
}

func (s *FileBatchStore) Load(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	raw, ok := doc[StorageKey]
	if !ok {
		return []string{}, nil
	}
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decode %s in %s: %w", StorageKey, s.path, err))
	}
	return ids, nil
}

func (s *FileBatchStore) Save(_ context.Context, batchIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	if batchIDs == nil {
		batchIDs = []string{}
	}
	ids, err := json.Marshal(batchIDs)
	if err != nil {
		return err
	}
	doc[StorageKey] = ids
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
