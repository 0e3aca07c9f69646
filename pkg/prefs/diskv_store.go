package prefs

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"
)

const defaultDiskvCacheSize = 1024 * 1024

// DiskvStore keeps each record as one file under BasePath/user/.
type DiskvStore struct {
	mu sync.Mutex
	d  *diskv.Diskv
}

func NewDiskvStore(basePath string, cacheSizeBytes uint64) *DiskvStore {
	if cacheSizeBytes == 0 {
		cacheSizeBytes = defaultDiskvCacheSize
	}
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      cacheSizeBytes,
	})}
}

func recordKey(userID int64) string {
	return "user-" + strconv.FormatInt(userID, 10)
}

func keyToPathTransform(key string) *diskv.PathKey {
	prefix, _, _ := strings.Cut(key, "-")
	return &diskv.PathKey{
		Path:     []string{prefix},
		FileName: key + ".json",
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return strings.TrimSuffix(pathKey.FileName, ".json")
}

func (s *DiskvStore) Read(ctx context.Context, userID int64) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	key := recordKey(userID)
	if !s.d.Has(key) {
		return Record{}, nil
	}
	blob, err := s.d.Read(key)
	if err != nil {
		return Record{}, err
	}
	return decodeRecord(blob)
}

func (s *DiskvStore) Merge(ctx context.Context, userID int64, patch Patch) error {
	if err := patch.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	key := recordKey(userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	var existing []byte
	if s.d.Has(key) {
		blob, err := s.d.Read(key)
		if err != nil {
			return err
		}
		existing = blob
	}
	merged, err := mergeBlob(existing, patch)
	if err != nil {
		return err
	}
	return s.d.Write(key, merged)
}
