package mail

import (
	"fmt"
	"time"

	"pawsitivity/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReminderWindow is how long a user may go without sending a message before
// they get a reminder email.
const ReminderWindow = 48 * time.Hour

// HasSentMessageRecently reports whether the user authored any message inside
// the window.
func HasSentMessageRecently(db *gorm.DB, userID uint, window time.Duration) (bool, error) {
	var count int64
	err := db.Model(&domain.Message{}).
		Where("sender_id = ? AND created_at >= ?", userID, time.Now().Add(-window)).
		Count(&count).Error
	return count > 0, err
}

// RemindInactiveUsers emails every user who has not sent a message within the
// reminder window. Per-user delivery failures are logged and skipped so one
// bad address does not abort the sweep. Returns the number of reminders sent.
func RemindInactiveUsers(db *gorm.DB, mailer Mailer) (int, error) {
	var users []domain.User
	if err := db.Find(&users).Error; err != nil {
		return 0, err
	}
	sent := 0
	for _, user := range users {
		recent, err := HasSentMessageRecently(db, user.ID, ReminderWindow)
		if err != nil {
			return sent, err
		}
		if recent || user.Email == "" {
			continue
		}
		body := fmt.Sprintf(
			"Hi %s! We noticed you haven't sent any messages of positivity lately. We would love to see you again on Pawsitivity!",
			user.FirstName,
		)
		if err := mailer.Send(user.Email, "Pawsitivity Reminder", body); err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": user.ID,
				"error":   err.Error(),
			}).Error("Reminder email failed")
			continue
		}
		sent++
	}
	return sent, nil
}
