package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"go.etcd.io/bbolt"
)

const CacheDirName = ".a11ygrade_cache"

// RepoCache keeps repository listings in a bbolt file under the user's
// home directory, one file per API host.
type RepoCache struct {
	Dir string
}

func NewRepoCache() (*RepoCache, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &RepoCache{Dir: filepath.Join(homeDir, CacheDirName)}, nil
}

func (c *RepoCache) file(source string) (string, error) {
	if err := os.MkdirAll(c.Dir, 0755); err != nil {
		return "", err
	}
	return filepath.Join(c.Dir, fmt.Sprintf("%s_repos_cache.db", Sanitize(source))), nil
}

// LoadCached returns every entry in bucket. A missing bucket is an error so
// callers fall back to the API.
func LoadCached[T any](cache *RepoCache, source, bucket string) ([]T, error) {
	cacheFile, err := cache.file(source)
	if err != nil {
		return nil, err
	}

	db, err := bbolt.Open(cacheFile, 0666, nil)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var items []T
	err = db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		return b.ForEach(func(k, v []byte) error {
			var item T
			if err := json.Unmarshal(v, &item); err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
	})
	return items, err
}

func SaveCached[T any](cache *RepoCache, source, bucket string, items []T, key func(T) string) error {
	cacheFile, err := cache.file(source)
	if err != nil {
		return err
	}

	db, err := bbolt.Open(cacheFile, 0666, nil)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		for _, item := range items {
			data, err := json.Marshal(item)
			if err != nil {
				log.Warnf("Skipping cache entry %s: %v", key(item), err)
				continue
			}
			if err := b.Put([]byte(key(item)), data); err != nil {
				return err
			}
		}
		return nil
	})
}
