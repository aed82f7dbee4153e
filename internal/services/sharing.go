package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/bluesherpa/analytics-engine/internal/logger"
	"github.com/bluesherpa/analytics-engine/internal/repos"
	"github.com/bluesherpa/analytics-engine/internal/types"
)

const shareTTL = 30 * 24 * time.Hour

var shareAccessLevels = map[string]struct{}{
	"VIEW":    {},
	"COMMENT": {},
	"EDIT":    {},
}

// ShareLink describes a freshly minted share token. Tokens are not persisted:
// reading one back is deliberately unimplemented on this demo surface.
type ShareLink struct {
	Token         string         `json:"share_token"`
	URL           string         `json:"share_url"`
	AccessLevel   string         `json:"access_level"`
	ExpiresAt     string         `json:"expires_at"`
	InvitedEmails []string       `json:"invited_emails"`
	Session       *types.Session `json:"-"`
}

type SharingService interface {
	CreateShare(ctx context.Context, sessionID, accessLevel string, emails []string) (*ShareLink, error)
	AccessShare(ctx context.Context, token string) error
}

type sharingService struct {
	db          *gorm.DB
	log         *logger.Logger
	sessionRepo repos.SessionRepo
	baseURL     string
}

func NewSharingService(db *gorm.DB, log *logger.Logger, sessionRepo repos.SessionRepo) SharingService {
	return &sharingService{
		db:          db,
		log:         log.With("service", "SharingService"),
		sessionRepo: sessionRepo,
		baseURL:     "https://analytics.bluesherpa.com/share",
	}
}

func (shs *sharingService) CreateShare(ctx context.Context, sessionID, accessLevel string, emails []string) (*ShareLink, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session ID is required", ErrValidation)
	}
	accessLevel = strings.ToUpper(strings.TrimSpace(accessLevel))
	if accessLevel == "" {
		accessLevel = "VIEW"
	}
	if _, ok := shareAccessLevels[accessLevel]; !ok {
		return nil, fmt.Errorf("%w: invalid access level", ErrValidation)
	}

	var invalid []string
	for _, email := range emails {
		if _, err := mail.ParseAddress(email); err != nil {
			invalid = append(invalid, email)
		}
	}
	if len(invalid) > 0 {
		return nil, fmt.Errorf("%w: invalid email addresses: %s", ErrValidation, strings.Join(invalid, ", "))
	}

	session, err := ownedSession(ctx, shs.sessionRepo, sessionID)
	if err != nil {
		return nil, err
	}

	token := uuid.New().String()
	link := &ShareLink{
		Token:         token,
		URL:           fmt.Sprintf("%s/%s", shs.baseURL, token),
		AccessLevel:   accessLevel,
		ExpiresAt:     time.Now().UTC().Add(shareTTL).Format(time.RFC3339),
		InvitedEmails: emails,
		Session:       session,
	}
	shs.log.Info("Share link created", "session_id", sessionID, "access_level", accessLevel)
	return link, nil
}

// AccessShare always reports not-implemented: tokens are minted but never
// stored, so there is nothing to resolve.
func (shs *sharingService) AccessShare(ctx context.Context, token string) error {
	return fmt.Errorf("%w: share functionality not fully implemented in demo", ErrNotImplemented)
}
