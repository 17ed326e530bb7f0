package notification

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/auditlog"
	"go.uber.org/zap"
)

const listLimit = 50

// Message is the content of one in-app notification.
type Message struct {
	Title        string
	Message      string
	Type         string
	Category     string
	RelatedID    *uint
	RelatedModel string
}

// Notifier is what the workflow services use to reach users. Delivery
// failures are logged, they never fail the calling operation.
type Notifier interface {
	NotifyUser(ctx context.Context, userID uint, msg Message) error
	NotifyRole(ctx context.Context, role string, msg Message) error
	SendEmail(ctx context.Context, to string, email Email)
}

type BroadcastInput struct {
	Title    string `json:"title" binding:"required,max=200"`
	Message  string `json:"message" binding:"required"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	Category string `json:"category"`
	SenderID uint   `json:"-"`
}

type Service interface {
	Notifier
	ListForUser(ctx context.Context, userID uint, role string) ([]Notification, int64, error)
	MarkAsRead(ctx context.Context, id, userID uint, role string) error
	MarkAllAsRead(ctx context.Context, userID uint) (int64, error)
	Broadcast(ctx context.Context, in BroadcastInput) (*Notification, error)
	RegisterDevice(ctx context.Context, userID uint, token, platform string) error
	RemoveDevice(ctx context.Context, userID uint, token string) error
}

type service struct {
	repo       Repository
	publisher  Publisher
	pusher     Pusher
	dispatcher Dispatcher
	auditSvc   auditlog.Service
	log        *zap.Logger
}

func NewService(repo Repository, publisher Publisher, pusher Pusher, dispatcher Dispatcher, auditSvc auditlog.Service, log *zap.Logger) Service {
	return &service{
		repo:       repo,
		publisher:  publisher,
		pusher:     pusher,
		dispatcher: dispatcher,
		auditSvc:   auditSvc,
		log:        log,
	}
}

func (m Message) normalized() Message {
	if !IsValidType(m.Type) {
		m.Type = TypeInfo
	}
	if !IsValidCategory(m.Category) {
		m.Category = CategoryGeneral
	}
	return m
}

func (s *service) NotifyUser(ctx context.Context, userID uint, msg Message) error {
	msg = msg.normalized()
	n := &Notification{
		RecipientID:  &userID,
		Title:        msg.Title,
		Message:      msg.Message,
		Type:         msg.Type,
		Category:     msg.Category,
		RelatedID:    msg.RelatedID,
		RelatedModel: msg.RelatedModel,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error("❌ Failed to store notification", zap.Uint("user_id", userID), zap.Error(err))
		return err
	}

	s.publish(ctx, UserChannel(userID), n)
	s.push(ctx, userID, n)
	return nil
}

func (s *service) NotifyRole(ctx context.Context, role string, msg Message) error {
	msg = msg.normalized()
	n := &Notification{
		RecipientRole: &role,
		Title:         msg.Title,
		Message:       msg.Message,
		Type:          msg.Type,
		Category:      msg.Category,
		RelatedID:     msg.RelatedID,
		RelatedModel:  msg.RelatedModel,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error("❌ Failed to store role notification", zap.String("role", role), zap.Error(err))
		return err
	}

	s.publish(ctx, RoleChannel(role), n)
	return nil
}

func (s *service) publish(ctx context.Context, channel string, n *Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, channel, payload); err != nil {
		s.log.Warn("⚠️ Notification publish failed", zap.String("channel", channel), zap.Error(err))
	}
}

func (s *service) push(ctx context.Context, userID uint, n *Notification) {
	tokens, err := s.repo.DeviceTokensForUser(ctx, userID)
	if err != nil {
		s.log.Warn("⚠️ Failed to load device tokens", zap.Uint("user_id", userID), zap.Error(err))
		return
	}
	if len(tokens) == 0 {
		return
	}

	data := map[string]string{
		"notification_id": strconv.FormatUint(uint64(n.ID), 10),
		"category":        n.Category,
	}
	if err := s.pusher.Push(ctx, tokens, n.Title, n.Message, data); err != nil {
		s.log.Warn("⚠️ Push delivery failed", zap.Uint("user_id", userID), zap.Error(err))
	}
}

func (s *service) SendEmail(ctx context.Context, to string, email Email) {
	if to == "" {
		return
	}
	job := EmailJob{To: to, Subject: email.Subject, HTML: email.HTML}
	if err := s.dispatcher.Enqueue(ctx, job); err != nil {
		s.log.Error("❌ Failed to enqueue email", zap.String("to", to), zap.String("subject", email.Subject), zap.Error(err))
	}
}

func (s *service) ListForUser(ctx context.Context, userID uint, role string) ([]Notification, int64, error) {
	items, err := s.repo.ListVisible(ctx, userID, role, listLimit)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, userID, role)
	if err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []Notification{}
	}
	return items, unread, nil
}

func (s *service) MarkAsRead(ctx context.Context, id, userID uint, role string) error {
	return s.repo.MarkAsRead(ctx, id, userID, role)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID uint) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func (s *service) Broadcast(ctx context.Context, in BroadcastInput) (*Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if in.Title == "" || in.Message == "" {
		return nil, apperrors.Validation("Title and message are required")
	}
	if in.Role == "" {
		in.Role = RoleAll
	}
	if !IsValidRecipientRole(in.Role) {
		return nil, apperrors.Validation("Invalid recipient role")
	}
	if in.Type != "" && !IsValidType(in.Type) {
		return nil, apperrors.Validation("Invalid notification type")
	}
	if in.Category != "" && !IsValidCategory(in.Category) {
		return nil, apperrors.Validation("Invalid notification category")
	}

	msg := Message{Title: in.Title, Message: in.Message, Type: in.Type, Category: in.Category}.normalized()
	n := &Notification{
		RecipientRole: &in.Role,
		Title:         msg.Title,
		Message:       msg.Message,
		Type:          msg.Type,
		Category:      msg.Category,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	s.publish(ctx, RoleChannel(in.Role), n)

	sender := in.SenderID
	if err := s.auditSvc.LogAction(ctx, auditlog.Entry{
		UserID:     &sender,
		Action:     "NOTIFICATION_BROADCAST",
		EntityType: "notification",
		EntityID:   &n.ID,
		Details:    map[string]interface{}{"role": in.Role, "title": in.Title},
	}); err != nil {
		s.log.Warn("⚠️ Audit log error", zap.Error(err))
	}
	return n, nil
}

func (s *service) RegisterDevice(ctx context.Context, userID uint, token, platform string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.Validation("Device token is required")
	}
	return s.repo.SaveDeviceToken(ctx, &DeviceToken{UserID: userID, Token: token, Platform: platform})
}

func (s *service) RemoveDevice(ctx context.Context, userID uint, token string) error {
	return s.repo.RemoveDeviceToken(ctx, userID, token)
}
