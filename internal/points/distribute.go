package points

import (
	"errors"
	"fmt"

	"pawsitivity/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// distributeAttempts bounds the optimistic retries when concurrent sends race
// on the same sender's remaining budget.
const distributeAttempts = 5

// errStaleBudget signals that the sender's balance changed between the
// snapshot read and the drain; the attempt rolls back and is retried on a
// fresh transaction.
var errStaleBudget = errors.New("sender budget changed during drain")

// Distribute moves the points earned by a message from the sender's daily
// budget into the other conversation members' wallets and all-time totals.
//
// The amount requested is messagePoints per recipient, capped at the sender's
// remaining budget so the sender never goes negative. The capped amount is
// split across recipients by integer division; the remainder is dropped, not
// redistributed. That lossy rounding is a compatibility requirement.
//
// Both debit paths are declarative: the full debit carries its balance guard
// inside the UPDATE, and the drain-to-zero only lands when the balance still
// equals the snapshot it was computed from, retrying otherwise. Two racing
// sends can therefore never credit more than was deducted.
//
// A conversation where the sender is the only member distributes nothing.
// Returns the per-recipient share that was granted.
func Distribute(db *gorm.DB, messagePoints int, senderUserID uint, recipientUserIDs []uint) (int, error) {
	if len(recipientUserIDs) == 0 || messagePoints <= 0 {
		return 0, nil
	}
	total := messagePoints * len(recipientUserIDs)
	var actual, share int
	for attempt := 0; attempt < distributeAttempts; attempt++ {
		err := db.Transaction(func(tx *gorm.DB) error {
			// Try the full debit first; the balance guard is part of the
			// UPDATE so it either lands whole or not at all.
			res := tx.Model(&domain.Profile{}).
				Where("user_id = ? AND points >= ?", senderUserID, total).
				Update("points", gorm.Expr("points - ?", total))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				actual = total
			} else {
				// Budget below the requested total: drain whatever is left,
				// but only if the balance is still the one just read.
				var sender domain.Profile
				if err := tx.Where("user_id = ?", senderUserID).First(&sender).Error; err != nil {
					return err
				}
				actual = sender.Points
				if actual > 0 {
					res := tx.Model(&domain.Profile{}).
						Where("user_id = ? AND points = ?", senderUserID, actual).
						Update("points", 0)
					if res.Error != nil {
						return res.Error
					}
					if res.RowsAffected == 0 {
						return errStaleBudget
					}
				}
			}
			share = actual / len(recipientUserIDs)
			if share == 0 {
				return nil
			}
			return tx.Model(&domain.Profile{}).
				Where("user_id IN ?", recipientUserIDs).
				Updates(map[string]any{
					"wallet":          gorm.Expr("wallet + ?", share),
					"all_time_points": gorm.Expr("all_time_points + ?", share),
				}).Error
		})
		if errors.Is(err, errStaleBudget) {
			continue
		}
		if err != nil {
			return 0, err
		}
		logrus.WithFields(logrus.Fields{
			"sender_user_id": senderUserID,
			"recipients":     len(recipientUserIDs),
			"deducted":       actual,
			"share":          share,
		}).Info("Points distributed")
		return share, nil
	}
	return 0, fmt.Errorf("distribute for user %d: %w", senderUserID, errStaleBudget)
}
