// Package identity extracts the acting user id from a request.
//
// The service carries identity out of band of the session token: a dedicated
// header, a query parameter, or a field in the JSON body, checked in that
// order. The first syntactically valid (UUID) value wins; a malformed value at
// one level falls through to the next. Absence of an identity is not an error,
// callers decide whether one is required.
package identity

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Header is the dedicated identity header.
const Header = "X-User-Id"

// Query parameter and body field names, camelCase checked before snake_case.
var paramNames = []string{"userId", "user_id"}

type bodyIdentity struct {
	UserID      string `json:"userId"`
	UserIDSnake string `json:"user_id"`
}

// Resolve determines the acting user id from the identity header value, the
// request query parameters and the raw JSON body. It is a pure function of its
// inputs and reports ok=false when no valid identity is present anywhere.
func Resolve(header string, query map[string]string, body []byte) (string, bool) {
	if id, ok := valid(header); ok {
		return id, true
	}

	for _, name := range paramNames {
		if id, ok := valid(query[name]); ok {
			return id, true
		}
	}

	if len(body) > 0 {
		var b bodyIdentity
		if err := json.Unmarshal(body, &b); err == nil {
			if id, ok := valid(b.UserID); ok {
				return id, true
			}
			if id, ok := valid(b.UserIDSnake); ok {
				return id, true
			}
		}
	}

	return "", false
}

// valid reports whether s is a syntactically valid user id.
func valid(s string) (string, bool) {
	if s == "" {
		return "", false
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", false
	}
	return s, true
}
