// Package groups resolves the user group and conversation behind a requested
// participant set, creating both when no matching group exists yet.
package groups

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"pawsitivity/internal/domain"

	"gorm.io/gorm"
)

// ErrRecipientNotFound is returned when a requested username does not exist.
var ErrRecipientNotFound = errors.New("recipient not found")

// CanonicalName builds the membership key for a participant set: usernames
// lowercased, de-duplicated and sorted, joined with "-". The same participants
// in any order always produce the same key, which replaces the old substring
// matching with an exact set-equality lookup.
func CanonicalName(usernames []string) string {
	return strings.Join(normalize(usernames), "-")
}

// normalize lowercases, trims, de-duplicates and sorts a username list.
func normalize(usernames []string) []string {
	seen := make(map[string]bool, len(usernames))
	out := make([]string, 0, len(usernames))
	for _, name := range usernames {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Resolve finds the group and conversation for the given participants,
// creating both atomically when none exists. The requester is always part of
// the participant set. Any unknown username fails the whole operation with
// ErrRecipientNotFound and leaves no partial rows behind.
func Resolve(db *gorm.DB, requester string, sendTo []string) (*domain.UserGroup, *domain.Conversation, error) {
	participants := normalize(append(append([]string{}, sendTo...), requester))
	if len(participants) == 0 {
		return nil, nil, fmt.Errorf("%w: empty participant list", ErrRecipientNotFound)
	}
	key := strings.Join(participants, "-")

	var group domain.UserGroup
	var convo domain.Conversation
	err := db.Transaction(func(tx *gorm.DB) error {
		// Every named user must exist before anything is created
		members := make([]domain.User, 0, len(participants))
		for _, username := range participants {
			var user domain.User
			if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w: %s", ErrRecipientNotFound, username)
				}
				return err
			}
			members = append(members, user)
		}

		// Exact canonical-key match; a key matches at most one group
		err := tx.Where("name = ?", key).First(&group).Error
		if err == nil {
			return tx.Where("user_group_id = ?", group.ID).First(&convo).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		group = domain.UserGroup{Name: key, Members: members}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}
		convo = domain.Conversation{Name: key, UserGroupID: group.ID}
		return tx.Create(&convo).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &group, &convo, nil
}
