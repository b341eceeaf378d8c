package models

import (
	"time"

	"github.com/dmitrijs2005/legacykeeper/internal/common"
)

// Entry is one vault record. Title is display-only and stored in the clear;
// EncryptedContent is the opaque output of the client-side cipher and is
// never interpreted by the server. Entries are immutable after creation —
// there is no update operation.
//
// For document-category entries the ciphertext may live in object storage
// instead, in which case StorageKey holds the object key and
// EncryptedContent is empty.
type Entry struct {
	ID               string
	AccountID        string
	Title            string
	Category         common.EntryCategory
	EncryptedContent string
	StorageKey       string
	CreatedAt        time.Time
}
