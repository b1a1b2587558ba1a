package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/campusmarket/internal/common"
	"github.com/dmitrijs2005/campusmarket/internal/dbx"
	"github.com/dmitrijs2005/campusmarket/internal/server/config"
	"github.com/dmitrijs2005/campusmarket/internal/server/media"
	"github.com/dmitrijs2005/campusmarket/internal/server/models"
	"github.com/dmitrijs2005/campusmarket/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/campusmarket/internal/timex"
	"github.com/google/uuid"
)

// TransferPath is the route that receives upload bytes.
const TransferPath = "/uploads/blob"

type ReserveInput struct {
	Purpose     string
	ListingID   string
	ContentType string
	// UserID is the reserving user, empty for anonymous reservations.
	UserID string
}

// Reservation tells the client where to send the bytes.
type Reservation struct {
	UploadURL  string `json:"upload_url"`
	UploadID   string `json:"upload_id"`
	StorageKey string `json:"storage_key"`
	ExpiresIn  int64  `json:"expires_in"`
}

type ConfirmInput struct {
	UploadID string
	Position *int
	Caller   *models.Identity
}

// Confirmation is the outcome of a confirm. URL is nil when no bytes were
// received for the upload. Purpose is empty when there was no reservation.
type Confirmation struct {
	Purpose  string
	URL      *string
	PhotoID  string
	Position int
}

type SweepResult struct {
	Uploads int64
	Blobs   int64
}

// UploadService runs the reserve, transfer and confirm handshake.
type UploadService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	media       media.Store
	config      *config.Config
	now         timex.Clock
}

func NewUploadService(db *sql.DB, m repomanager.RepositoryManager, store media.Store, cfg *config.Config) *UploadService {
	return &UploadService{db: db, repomanager: m, media: store, config: cfg, now: timex.UTCNow}
}

// StorageKey returns a dated key for a new object of the given purpose.
func StorageKey(purpose, listingID string, d time.Time) string {
	if purpose == common.PurposeAvatar {
		return fmt.Sprintf("avatars/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
	}
	segment := strings.Map(func(r rune) rune {
		if r == '-' || r == '_' || ('0' <= r && r <= '9') || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') {
			return r
		}
		return -1
	}, listingID)
	if segment == "" {
		segment = "unassigned"
	}
	return fmt.Sprintf("listings/%s/%d/%d/%d/%v", segment, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *UploadService) transferTarget(uploadID string) string {
	return strings.TrimRight(s.config.BaseURL, "/") + TransferPath + "?id=" + url.QueryEscape(uploadID)
}

// Reserve records an upload intent and returns its transfer target.
func (s *UploadService) Reserve(ctx context.Context, in ReserveInput) (*Reservation, error) {
	if in.Purpose != common.PurposeAvatar && in.Purpose != common.PurposeListingPhoto {
		return nil, common.ErrInvalidPurpose
	}
	now := s.now()
	p := &models.PendingUpload{
		UploadID:    uuid.NewString(),
		Purpose:     in.Purpose,
		ListingID:   in.ListingID,
		UserID:      in.UserID,
		StorageKey:  StorageKey(in.Purpose, in.ListingID, now),
		ContentType: in.ContentType,
		CreatedAt:   now,
	}
	if err := s.repomanager.Uploads(dbx.Handle(s.db)).Save(ctx, p); err != nil {
		return nil, fmt.Errorf("error saving upload: %w", err)
	}
	return &Reservation{
		UploadURL:  s.transferTarget(p.UploadID),
		UploadID:   p.UploadID,
		StorageKey: p.StorageKey,
		ExpiresIn:  int64(s.config.UploadTTL.Seconds()),
	}, nil
}

// Transfer stores the bytes for uploadID, replacing earlier ones. A prior
// reservation is not required.
func (s *UploadService) Transfer(ctx context.Context, uploadID, contentType string, data []byte) error {
	if uploadID == "" {
		return common.ErrTransferTargetMissing
	}
	b := &models.BlobPayload{
		UploadID:    uploadID,
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
		CreatedAt:   s.now(),
	}
	if err := s.repomanager.Blobs(dbx.Handle(s.db)).Put(ctx, b); err != nil {
		return fmt.Errorf("%w: storing upload: %v", common.ErrorInternal, err)
	}
	return nil
}

// take consumes the intent and the payload of uploadID in one transaction.
// Either may be nil.
func (s *UploadService) take(ctx context.Context, uploadID string) (*models.PendingUpload, *models.BlobPayload, error) {
	var pending *models.PendingUpload
	var blob *models.BlobPayload
	err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := s.repomanager.Uploads(tx).Take(ctx, uploadID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		pending = p

		b, err := s.repomanager.Blobs(tx).Take(ctx, uploadID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		blob = b
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return pending, blob, nil
}

// Confirm finalises an upload. Both records are consumed whether or not
// they exist, so a second confirm of the same id resolves nothing.
func (s *UploadService) Confirm(ctx context.Context, in ConfirmInput) (*Confirmation, error) {
	if in.UploadID == "" {
		return nil, common.ErrMissingUploadID
	}
	pending, blob, err := s.take(ctx, in.UploadID)
	if err != nil {
		return nil, fmt.Errorf("error consuming upload: %w", err)
	}

	res := &Confirmation{}
	if pending != nil {
		res.Purpose = pending.Purpose
	}

	if blob == nil {
		if s.config.ConfirmPolicy == config.ConfirmStrict {
			return nil, common.ErrUploadNotFound
		}
		return res, nil
	}

	key := "orphans/" + in.UploadID
	if pending != nil {
		key = pending.StorageKey
	}
	resolved, err := s.media.Save(ctx, key, blob.ContentType, blob.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: saving media: %v", common.ErrorInternal, err)
	}
	res.URL = &resolved

	switch res.Purpose {
	case common.PurposeAvatar:
		if err := s.setAvatar(ctx, in.Caller, pending, resolved); err != nil {
			return nil, err
		}
	case common.PurposeListingPhoto:
		if err := s.attachPhoto(ctx, pending.ListingID, in.Position, res); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (s *UploadService) setAvatar(ctx context.Context, caller *models.Identity, pending *models.PendingUpload, resolved string) error {
	// The reserver owns the upload; the confirming caller only claims
	// anonymous reservations.
	userID := pending.UserID
	if userID == "" && caller != nil {
		userID = caller.UserID
	}
	if userID == "" {
		return nil
	}
	a := &models.Avatar{UserID: userID, URL: resolved, UpdatedAt: s.now()}
	if err := s.repomanager.Avatars(dbx.Handle(s.db)).Set(ctx, a); err != nil {
		return fmt.Errorf("error setting avatar: %w", err)
	}
	return nil
}

func (s *UploadService) attachPhoto(ctx context.Context, listingID string, position *int, res *Confirmation) error {
	repo := s.repomanager.Listings(dbx.Handle(s.db))

	var listing *models.Listing
	if listingID != "" {
		l, err := repo.Get(ctx, listingID)
		if err != nil && !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		listing = l
	}

	res.PhotoID = uuid.NewString()
	switch {
	case position != nil:
		res.Position = *position
	case listing != nil:
		res.Position = len(listing.Photos)
	}
	if listing == nil {
		return nil
	}

	photo := models.Photo{ID: res.PhotoID, URL: *res.URL, Position: res.Position}
	if err := repo.AppendPhoto(ctx, listing.ID, photo); err != nil {
		return fmt.Errorf("error attaching photo: %w", err)
	}
	return nil
}

// Sweep drops intents and payloads older than the upload TTL.
func (s *UploadService) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	cutoff := now.Add(-s.config.UploadTTL)
	var res SweepResult
	var err error
	if res.Uploads, err = s.repomanager.Uploads(dbx.Handle(s.db)).DeleteExpired(ctx, cutoff); err != nil {
		return res, fmt.Errorf("error sweeping uploads: %w", err)
	}
	if res.Blobs, err = s.repomanager.Blobs(dbx.Handle(s.db)).DeleteExpired(ctx, cutoff); err != nil {
		return res, fmt.Errorf("error sweeping blobs: %w", err)
	}
	return res, nil
}

// OpenMedia returns a confirmed object by storage key.
func (s *UploadService) OpenMedia(ctx context.Context, key string) (*media.Object, error) {
	if key == "" {
		return nil, common.ErrMediaNotFound
	}
	return s.media.Open(ctx, key)
}
