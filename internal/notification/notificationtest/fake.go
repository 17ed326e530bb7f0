// Package notificationtest provides a recording notification.Notifier.
package notificationtest

import (
	"context"
	"sync"

	"github.com/housefit/apartment-management-backend/internal/notification"
)

type UserMessage struct {
	UserID uint
	Msg    notification.Message
}

type RoleMessage struct {
	Role string
	Msg  notification.Message
}

type SentEmail struct {
	To string
	notification.Email
}

type Recorder struct {
	mu    sync.Mutex
	Users []UserMessage
	Roles []RoleMessage
	Mails []SentEmail
}

func (r *Recorder) NotifyUser(_ context.Context, userID uint, msg notification.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Users = append(r.Users, UserMessage{UserID: userID, Msg: msg})
	return nil
}

func (r *Recorder) NotifyRole(_ context.Context, role string, msg notification.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Roles = append(r.Roles, RoleMessage{Role: role, Msg: msg})
	return nil
}

func (r *Recorder) SendEmail(_ context.Context, to string, email notification.Email) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Mails = append(r.Mails, SentEmail{To: to, Email: email})
}
