package task

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestNewIDGenerator(t *testing.T) {
	at := time.Date(2024, 4, 5, 6, 7, 8, 0, time.UTC)
	gen, err := NewIDGenerator(func() time.Time { return at })
	if err != nil {
		t.Fatalf("NewIDGenerator() error = %v", err)
	}

	prefix := strconv.FormatInt(at.UnixMilli(), 36)
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := gen()
		if !strings.HasPrefix(id, prefix) {
			t.Fatalf("expected id %q to start with time prefix %q", id, prefix)
		}
		if len(id) != len(prefix)+idSuffixLength {
			t.Fatalf("unexpected id length %d for %q", len(id), id)
		}
		if strings.Trim(id, idAlphabet) != "" {
			t.Fatalf("id %q has characters outside the alphabet", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
