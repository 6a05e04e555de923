package store

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cursors reference the last-seen record of the previous page: creation time
// descending with the document id as tiebreaker, base64-wrapped so clients
// treat them as opaque.

func encodeCursor(createdAt time.Time, id primitive.ObjectID) string {
	raw := fmt.Sprintf("%d|%s", createdAt.UnixNano(), id.Hex())
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, primitive.ObjectID, error) {
	raw, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, primitive.NilObjectID, fmt.Errorf("bad cursor: %w", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, primitive.NilObjectID, fmt.Errorf("bad cursor")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, primitive.NilObjectID, fmt.Errorf("bad cursor: %w", err)
	}
	id, err := primitive.ObjectIDFromHex(parts[1])
	if err != nil {
		return time.Time{}, primitive.NilObjectID, fmt.Errorf("bad cursor: %w", err)
	}
	return time.Unix(0, nanos), id, nil
}
