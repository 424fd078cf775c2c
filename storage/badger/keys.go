package badger

import (
	"encoding/binary"
	"time"

	"github.com/poiesic/curator/core"
	"github.com/poiesic/curator/storage"
)

// Key prefixes for different data types
const (
	opinionPrefix  = "uop:"
	eventPrefix    = "uev:"
	eventIDSeq     = "uevseq"
	tagPrefix      = "rtag:"
	usagePrefix    = "quota:"
	feedbackPrefix = "fb:"
)

// maxUserIDLength bounds the user segment embedded in keys.
const maxUserIDLength = 512

// userSegment encodes a user id as a length-prefixed key segment so that one
// user's prefix can never be a prefix of another's.
func userSegment(prefix, userID string) ([]byte, error) {
	if userID == "" {
		return nil, storage.ErrUserIDRequired
	}
	if len(userID) > maxUserIDLength {
		return nil, storage.ErrUserIDTooLong
	}
	buf := make([]byte, 0, len(prefix)+2+len(userID)+16)
	buf = append(buf, prefix...)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(userID)))
	return append(buf, userID...), nil
}

// makeOpinionKey generates the key of a user's opinion on a resource.
// Format: prefix:len:user:resourceID
func makeOpinionKey(userID string, resourceID core.ResourceID) ([]byte, error) {
	buf, err := userSegment(opinionPrefix, userID)
	if err != nil {
		return nil, err
	}
	// BigEndian keeps resource ids in numeric order during prefix scans
	return binary.BigEndian.AppendUint64(buf, uint64(resourceID)), nil
}

// makeEventKey generates the key of a click or ignore event.
// Format: prefix:len:user:timestamp:seq
func makeEventKey(userID string, timestamp time.Time, seq uint64) ([]byte, error) {
	buf, err := userSegment(eventPrefix, userID)
	if err != nil {
		return nil, err
	}
	buf = binary.BigEndian.AppendUint64(buf, uint64(timestamp.UnixMicro()))
	return binary.BigEndian.AppendUint64(buf, seq), nil
}

// makeTagKey generates the key of a resource's cached tags.
func makeTagKey(resourceID core.ResourceID) []byte {
	return binary.BigEndian.AppendUint64([]byte(tagPrefix), uint64(resourceID))
}

// makeUsageKey generates the key of a user's quota counters.
func makeUsageKey(userID string) ([]byte, error) {
	return userSegment(usagePrefix, userID)
}

// makeFeedbackKey generates the key of a user's feedback on a resource.
// Format: prefix:len:user:resourceID
func makeFeedbackKey(userID string, resourceID core.ResourceID) ([]byte, error) {
	buf, err := userSegment(feedbackPrefix, userID)
	if err != nil {
		return nil, err
	}
	return binary.BigEndian.AppendUint64(buf, uint64(resourceID)), nil
}
