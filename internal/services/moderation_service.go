package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/puzzlepals-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrAlreadyBlocked  = errors.New("user already blocked")
	ErrSelfBlock       = errors.New("cannot block yourself")
	ErrContentRejected = errors.New("content rejected")
)

var BannedWords = []string{
	"fuck", "fucking", "fucker", "shit", "shitty", "bullshit",
	"ass", "asshole", "bastard", "bitch", "cunt",
	"nigger", "nigga", "chink", "spic", "kike", "faggot", "fag",
	"retard", "retarded", "tranny",
	"porn", "porno", "nude", "nudes",
	"spam", "scam", "scammer", "phishing", "malware",
}

var rejectionMessages = map[string]string{
	"inappropriate_language":   "Your message contains inappropriate language.",
	"url_not_allowed":          "Links are not allowed.",
	"contact_info_not_allowed": "Contact information is not allowed.",
	"spam_detected":            "Your message looks like spam.",
	"excessive_caps":           "Please avoid excessive capital letters.",
}

var reportContentTypes = map[string]bool{
	"user": true, "discussion_message": true, "direct_message": true,
	"game_comment": true, "game": true,
}

// RejectionError carries the machine-readable reason a text was refused.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	if msg, ok := rejectionMessages[e.Reason]; ok {
		return msg
	}
	return "Your message does not meet our community guidelines."
}

func (e *RejectionError) Unwrap() error { return ErrContentRejected }

// ModerationService screens user text and manages reports and blocks.
// Patterns are compiled once at construction and are read-only afterwards.
type ModerationService struct {
	db             *gorm.DB
	bannedWords    []*regexp.Regexp
	urlPattern     *regexp.Regexp
	emailPattern   *regexp.Regexp
	phonePattern   *regexp.Regexp
	allCapsPattern *regexp.Regexp
}

func NewModerationService(db *gorm.DB) *ModerationService {
	ms := &ModerationService{
		db:             db,
		bannedWords:    make([]*regexp.Regexp, 0, len(BannedWords)),
		urlPattern:     regexp.MustCompile(`(?i)(https?://\S+|www\.\S+\.\S+)`),
		emailPattern:   regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		phonePattern:   regexp.MustCompile(`\d{3}[-.\s]?\d{3}[-.\s]?\d{4}|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}`),
		allCapsPattern: regexp.MustCompile(`[A-Z]{5,}`),
	}
	for _, word := range BannedWords {
		ms.bannedWords = append(ms.bannedWords, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(word)+`\b`))
	}
	return ms
}

// Screen returns a *RejectionError when text breaks the content rules.
func (ms *ModerationService) Screen(text string) error {
	if reason := ms.rejectionReason(text); reason != "" {
		return &RejectionError{Reason: reason}
	}
	return nil
}

func (ms *ModerationService) rejectionReason(text string) string {
	if text == "" {
		return ""
	}
	for _, re := range ms.bannedWords {
		if re.MatchString(text) {
			return "inappropriate_language"
		}
	}
	switch {
	case ms.urlPattern.MatchString(text):
		return "url_not_allowed"
	case ms.emailPattern.MatchString(text), ms.phonePattern.MatchString(text):
		return "contact_info_not_allowed"
	case hasRepeatedRun(text, 4):
		return "spam_detected"
	case len(ms.allCapsPattern.FindAllString(text, -1)) > 2:
		return "excessive_caps"
	}
	return ""
}

// hasRepeatedRun reports a run of n or more identical letters or !?. characters.
// RE2 has no backreferences, so runs are counted directly.
func hasRepeatedRun(text string, n int) bool {
	var prev rune
	run := 0
	for _, r := range strings.ToLower(text) {
		counted := (r >= 'a' && r <= 'z') || r == '!' || r == '?' || r == '.'
		if counted && r == prev {
			run++
		} else {
			run = 1
		}
		prev = r
		if counted && run >= n {
			return true
		}
	}
	return false
}

func (s *ModerationService) CreateReport(reporterID uuid.UUID, req *dto.CreateReportRequest) (*models.Report, error) {
	if !reportContentTypes[req.ContentType] {
		return nil, errors.New("invalid content_type")
	}
	if strings.TrimSpace(req.ContentID) == "" {
		return nil, errors.New("content_id is required")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, errors.New("reason is required")
	}

	report := models.Report{
		ReporterID:  reporterID,
		ContentType: req.ContentType,
		ContentID:   req.ContentID,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      "pending",
	}

	if err := s.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return &report, nil
}

func (s *ModerationService) ListReports(status string, limit, offset int) ([]models.Report, int64, error) {
	var reports []models.Report
	var total int64

	query := s.db.Model(&models.Report{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&reports).Error; err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (s *ModerationService) ActionReport(reportID uuid.UUID, req *dto.ActionReportRequest) error {
	validStatuses := map[string]bool{"reviewed": true, "actioned": true, "dismissed": true}
	if !validStatuses[req.Status] {
		return errors.New("invalid status: must be reviewed, actioned, or dismissed")
	}

	result := s.db.Model(&models.Report{}).
		Where("id = ?", reportID).
		Updates(map[string]interface{}{
			"status":     req.Status,
			"admin_note": req.AdminNote,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

func (s *ModerationService) BlockUser(blockerID, blockedID uuid.UUID) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}

	var existing models.Block
	if err := s.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).First(&existing).Error; err == nil {
		return ErrAlreadyBlocked
	}

	return s.db.Create(&models.Block{BlockerID: blockerID, BlockedID: blockedID}).Error
}

func (s *ModerationService) UnblockUser(blockerID, blockedID uuid.UUID) error {
	return s.db.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Delete(&models.Block{}).Error
}

// BlockedIDs lists the users blockerID has blocked.
func (s *ModerationService) BlockedIDs(blockerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := s.db.Model(&models.Block{}).Where("blocker_id = ?", blockerID).Pluck("blocked_id", &ids).Error
	return ids, err
}

// IsBlocked reports whether either user has blocked the other.
func (s *ModerationService) IsBlocked(a, b uuid.UUID) (bool, error) {
	var count int64
	err := s.db.Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&count).Error
	return count > 0, err
}
