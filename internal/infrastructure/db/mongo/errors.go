package mongo

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/JathurSrishanth/e-voting-backend/internal/core/domain"
)

// isDuplicateOn reports whether err is an E11000 raised by the named index.
// Server messages read "... index: <name> dup key: ...".
func isDuplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), "index: "+index+" ")
}

// unavailable tags a driver error so callers see domain.ErrStorageUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

// idString renders an _id written either by this service (string) or by the
// original mongoose models (ObjectID).
func idString(id interface{}) string {
	switch v := id.(type) {
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
