package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamKV stores keys in a NATS JetStream key-value bucket.
type JetStreamKV struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	bucket jetstream.KeyValue
}

var _ KV = (*JetStreamKV)(nil)

// OpenJetStream connects to natsURL and opens (or creates) the bucket.
func OpenJetStream(ctx context.Context, natsURL, bucket string) (*JetStreamKV, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	s := &JetStreamKV{conn: conn, js: js}
	kv, err := s.getOrCreateBucket(ctx, bucket)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open %s bucket: %w", bucket, err)
	}
	s.bucket = kv
	return s, nil
}

func (s *JetStreamKV) getOrCreateBucket(ctx context.Context, name string) (jetstream.KeyValue, error) {
	bucket, err := s.js.KeyValue(ctx, name)
	if err == nil {
		return bucket, nil
	}
	return s.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: "Task tracker state",
		History:     1,
	})
}

// GetWithContext returns the value for key, or nil if it is missing.
func (s *JetStreamKV) GetWithContext(ctx context.Context, key string) ([]byte, error) {
	entry, err := s.bucket.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if entry.Value() == nil {
		return []byte{}, nil
	}
	return entry.Value(), nil
}

// SetWithContext stores key. Per-key expiration is not supported by the
// bucket and exp is ignored.
func (s *JetStreamKV) SetWithContext(ctx context.Context, key string, val []byte, _ time.Duration) error {
	_, err := s.bucket.Put(ctx, key, val)
	return err
}

// DeleteWithContext removes key.
func (s *JetStreamKV) DeleteWithContext(ctx context.Context, key string) error {
	if err := s.bucket.Delete(ctx, key); err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return err
	}
	return nil
}

// IsConnected returns whether the NATS connection is active.
func (s *JetStreamKV) IsConnected() bool {
	return s.conn != nil && s.conn.IsConnected()
}

// Close closes the NATS connection.
func (s *JetStreamKV) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}
