package common

// AccessTokenHeaderName is the HTTP header used to carry the access token
// on authenticated requests.
const AccessTokenHeaderName = "X-Access-Token"

// Legacy timer bounds, in days. Settings outside these ranges are rejected
// at the API boundary and treated as unevaluatable by the sweep.
const (
	MinHeartbeatIntervalDays = 7
	MaxHeartbeatIntervalDays = 365
	MinGracePeriodDays       = 1
	MaxGracePeriodDays       = 30
)

// EntryCategory enumerates the kinds of vault entries.
type EntryCategory string

const (
	CategoryMessage  EntryCategory = "message"
	CategoryKey      EntryCategory = "key"
	CategoryDocument EntryCategory = "document"
)

// Valid reports whether c is one of the known categories.
func (c EntryCategory) Valid() bool {
	switch c {
	case CategoryMessage, CategoryKey, CategoryDocument:
		return true
	}
	return false
}
