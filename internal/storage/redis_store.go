package storage

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"
)

// PublishRecord is one entry of a document's publish history.
type PublishRecord struct {
	Op       string    `json:"op"` // create or update
	PostID   string    `json:"post_id"`
	Status   string    `json:"status"`
	URL      string    `json:"url,omitempty"`
	Title    string    `json:"title,omitempty"`
	At       time.Time `json:"at"`
	WriteErr string    `json:"write_err,omitempty"`
}

type RedisStore struct {
	rdb         *redis.Client
	historySize int64
}

func NewRedisStore(rdb *redis.Client, historySize int) *RedisStore {
	if historySize <= 0 {
		historySize = 20
	}
	return &RedisStore{rdb: rdb, historySize: int64(historySize)}
}

// docID keys documents by a hash of their absolute path.
func docID(ref string) string {
	if abs, err := filepath.Abs(ref); err == nil {
		ref = abs
	}
	sum := sha1.Sum([]byte(ref))
	return hex.EncodeToString(sum[:])
}

func lockKey(ref string) string {
	return fmt.Sprintf("ghostpub:lock:%s", docID(ref))
}

func historyKey(ref string) string {
	return fmt.Sprintf("ghostpub:history:%s", docID(ref))
}

// Acquire takes the in-flight publish lock for ref. It returns false when
// another publish holds it.
func (s *RedisStore) Acquire(ctx context.Context, ref string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, lockKey(ref), time.Now().UTC().Format(time.RFC3339), ttl).Result()
}

// Release drops the in-flight publish lock for ref.
func (s *RedisStore) Release(ctx context.Context, ref string) error {
	return s.rdb.Del(ctx, lockKey(ref)).Err()
}

// Record prepends rec to the history of ref, keeping the newest entries.
func (s *RedisStore) Record(ctx context.Context, ref string, rec PublishRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	key := historyKey(ref)
	pipe := s.rdb.TxPipeline()
	pipe.LPush(ctx, key, b)
	pipe.LTrim(ctx, key, 0, s.historySize-1)
	_, err = pipe.Exec(ctx)
	return err
}

// History returns up to n of the newest records for ref, newest first.
func (s *RedisStore) History(ctx context.Context, ref string, n int) ([]PublishRecord, error) {
	if n <= 0 {
		n = int(s.historySize)
	}
	vals, err := s.rdb.LRange(ctx, historyKey(ref), 0, int64(n-1)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := make([]PublishRecord, 0, len(vals))
	for _, v := range vals {
		var rec PublishRecord
		if err := json.Unmarshal([]byte(v), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}
