package tree

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"github.com/housefit/apartment-management-backend/internal/billing"
	"github.com/housefit/apartment-management-backend/internal/estimate"
	"github.com/housefit/apartment-management-backend/internal/notification"
	"github.com/housefit/apartment-management-backend/utils"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// Classifier judges whether a tree photo looks genuine.
type Classifier interface {
	VerifyTree(ctx context.Context) (*estimate.TreeVerdict, error)
	Model() string
}

type RewardApplier interface {
	ApplyRewardDiscount(ctx context.Context, tenantID uint, amount float64) (*billing.Bill, error)
}

type Service interface {
	Submit(ctx context.Context, userID uint, imageURL string, in SubmitInput) (*TreeSubmission, error)
	MySubmissions(ctx context.Context, userID uint) ([]TreeSubmission, error)
	List(ctx context.Context, status, month string) ([]TreeSubmission, error)
	Leaderboard(ctx context.Context, month string) (string, []LeaderboardEntry, error)
	Approve(ctx context.Context, adminID, id uint, decision string) (*TreeSubmission, error)
	Reject(ctx context.Context, adminID, id uint, decision string) (*TreeSubmission, error)
	// AwardTop discounts the current leader's latest unpaid bill. actorID is
	// nil when the sweep runs on schedule.
	AwardTop(ctx context.Context, actorID *uint) (*Reward, error)
}

type service struct {
	repo       Repository
	classifier Classifier
	rewards    RewardApplier
	notifier   notification.Notifier
	auditSvc   auditlog.Service
	log        *zap.Logger
	points     int
	discount   float64
	now        func() time.Time
}

func NewService(repo Repository, classifier Classifier, rewards RewardApplier, notifier notification.Notifier,
	auditSvc auditlog.Service, log *zap.Logger, points int, discount float64) Service {
	return &service{
		repo:       repo,
		classifier: classifier,
		rewards:    rewards,
		notifier:   notifier,
		auditSvc:   auditSvc,
		log:        log,
		points:     points,
		discount:   discount,
		now:        time.Now,
	}
}

func (s *service) Submit(ctx context.Context, userID uint, imageURL string, in SubmitInput) (*TreeSubmission, error) {
	if imageURL == "" {
		return nil, apperrors.Validation("Tree image is required")
	}
	location := strings.TrimSpace(in.Location)
	if location == "" {
		return nil, apperrors.Validation("Location is required")
	}

	now := s.now().UTC()
	t := &TreeSubmission{
		UserID:   userID,
		ImageURL: imageURL,
		Location: location,
		Status:   StatusPending,
		Month:    utils.MonthKey(now),
	}
	if in.PlantedDate != "" {
		d, err := utils.ParseDate(in.PlantedDate)
		if err != nil {
			return nil, apperrors.Validation("Planted date must be YYYY-MM-DD")
		}
		t.PlantedDate = &d
	}
	t.AIAnalysis = datatypes.NewJSONType(s.analyze(ctx, now))

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// analyze never fails: classifier problems degrade to an uncertain verdict
// left for manual review.
func (s *service) analyze(ctx context.Context, now time.Time) AIAnalysis {
	analysis := AIAnalysis{
		Classification: estimate.ClassUncertain,
		ModelUsed:      s.classifier.Model(),
		AnalyzedAt:     now,
	}

	verdict, err := s.classifier.VerifyTree(ctx)
	var parseErr *estimate.AIParseFailure
	switch {
	case err == nil:
		analysis.Classification = verdict.Classification
		analysis.Confidence = verdict.Confidence
		analysis.Reasoning = verdict.Reasoning
	case errors.As(err, &parseErr):
		s.log.Warn("⚠️ Tree classifier returned invalid JSON", zap.String("raw", parseErr.Raw), zap.Error(err))
		analysis.Reasoning = invalidReasoning
		analysis.ParseFailure = true
	default:
		s.log.Warn("⚠️ Tree classifier unavailable", zap.Error(err))
		analysis.Reasoning = unavailableReasoning
	}
	return analysis
}

func (s *service) MySubmissions(ctx context.Context, userID uint) ([]TreeSubmission, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) List(ctx context.Context, status, month string) ([]TreeSubmission, error) {
	return s.repo.List(ctx, status, month)
}

func (s *service) Leaderboard(ctx context.Context, month string) (string, []LeaderboardEntry, error) {
	if month == "" {
		month = utils.MonthKey(s.now().UTC())
	} else if !utils.IsValidMonth(month) {
		return "", nil, apperrors.Validation("Month must be YYYY-MM")
	}
	entries, err := s.repo.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return "", nil, err
	}
	return month, entries, nil
}

func (s *service) Approve(ctx context.Context, adminID, id uint, decision string) (*TreeSubmission, error) {
	fields := s.decision(adminID, StatusApproved, decision)
	fields["points_awarded"] = s.points
	if err := s.repo.Approve(ctx, id, s.points, fields); err != nil {
		return nil, err
	}
	s.audit(ctx, &adminID, "TREE_APPROVED", "tree", id, map[string]interface{}{"points": s.points})

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.User != nil {
		s.notifier.SendEmail(ctx, t.User.Email,
			notification.TreeApprovedEmail(t.User.FullName(), t.Location, t.PointsAwarded))
	}
	s.notify(ctx, t, notification.Message{
		Title:   "Tree Submission Approved",
		Message: fmt.Sprintf("Your tree submission was approved. You earned %d points.", t.PointsAwarded),
		Type:    notification.TypeSuccess,
	})
	return t, nil
}

func (s *service) Reject(ctx context.Context, adminID, id uint, decision string) (*TreeSubmission, error) {
	if err := s.repo.Reject(ctx, id, s.decision(adminID, StatusRejected, decision)); err != nil {
		return nil, err
	}
	s.audit(ctx, &adminID, "TREE_REJECTED", "tree", id, nil)

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	msg := "Your tree submission was rejected."
	if t.AdminDecision != "" {
		msg += " " + t.AdminDecision
	}
	s.notify(ctx, t, notification.Message{
		Title:   "Tree Submission Rejected",
		Message: msg,
		Type:    notification.TypeWarning,
	})
	return t, nil
}

func (s *service) AwardTop(ctx context.Context, actorID *uint) (*Reward, error) {
	top, err := s.repo.TopTenant(ctx)
	if err != nil {
		return nil, err
	}
	bill, err := s.rewards.ApplyRewardDiscount(ctx, top.ID, s.discount)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.NotifyUser(ctx, top.ID, notification.Message{
		Title:        "Tree Points Reward Applied",
		Message:      fmt.Sprintf("You lead the tree leaderboard! A discount of %.2f BDT was applied to your %s bill.", s.discount, bill.Month),
		Type:         notification.TypeSuccess,
		Category:     notification.CategoryBill,
		RelatedID:    &bill.ID,
		RelatedModel: "Bill",
	}); err != nil {
		s.log.Warn("⚠️ Notification failed", zap.Uint("user_id", top.ID), zap.Error(err))
	}
	s.audit(ctx, actorID, "TREE_REWARD_APPLIED", "bill", bill.ID, map[string]interface{}{
		"tenant_id":   top.ID,
		"tree_points": top.TreePoints,
		"discount":    s.discount,
	})

	return &Reward{
		Tenant:   *top,
		BillID:   bill.ID,
		Month:    bill.Month,
		Discount: bill.Discount,
		Total:    bill.Total,
	}, nil
}

func (s *service) decision(adminID uint, status, text string) map[string]interface{} {
	return map[string]interface{}{
		"status":         status,
		"admin_decision": strings.TrimSpace(text),
		"reviewed_by":    adminID,
		"reviewed_at":    s.now(),
	}
}

func (s *service) notify(ctx context.Context, t *TreeSubmission, msg notification.Message) {
	msg.Category = notification.CategoryTree
	msg.RelatedID = &t.ID
	msg.RelatedModel = "TreeSubmission"
	if err := s.notifier.NotifyUser(ctx, t.UserID, msg); err != nil {
		s.log.Warn("⚠️ Notification failed", zap.Uint("user_id", t.UserID), zap.Error(err))
	}
}

func (s *service) audit(ctx context.Context, actorID *uint, action, entity string, id uint, details map[string]interface{}) {
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     actorID,
		Action:     action,
		EntityType: entity,
		EntityID:   &id,
		Details:    details,
	}); err != nil {
		s.log.Warn("⚠️ Audit log write failed", zap.String("action", action), zap.Error(err))
	}
}
