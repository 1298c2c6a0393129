package task

import (
	"fmt"
	"strconv"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
)

const (
	idAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
	idSuffixLength = 11
)

// IDGenerator returns a new task id.
type IDGenerator func() string

// NewIDGenerator returns ids made of the base-36 millisecond time followed
// by a random base-36 suffix.
func NewIDGenerator(now func() time.Time) (IDGenerator, error) {
	suffix, err := nanoid.CustomASCII(idAlphabet, idSuffixLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create id generator: %w", err)
	}
	return func() string {
		return strconv.FormatInt(now().UnixMilli(), 36) + suffix()
	}, nil
}
