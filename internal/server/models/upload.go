package models

import "time"

// PendingUpload is the intent recorded by an upload reservation. It is
// consumed by the matching confirm.
type PendingUpload struct {
	UploadID    string
	Purpose     string
	ListingID   string
	UserID      string
	StorageKey  string
	ContentType string
	CreatedAt   time.Time
}

// BlobPayload holds the bytes received by a transfer, keyed by upload id.
type BlobPayload struct {
	UploadID    string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// Avatar is the current avatar of one user.
type Avatar struct {
	UserID    string
	URL       string
	UpdatedAt time.Time
}
