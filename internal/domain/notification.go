package domain

import "time"

// NotificationCategory enumerates the platform notification categories.
type NotificationCategory string

const (
	NotificationCategoryEvent     NotificationCategory = "event"
	NotificationCategoryGroup     NotificationCategory = "group"
	NotificationCategoryVolunteer NotificationCategory = "volunteer"
	NotificationCategorySystem    NotificationCategory = "system"
)

// NormalizeNotificationCategory maps arbitrary categories onto the stored
// enum. Helpdesk notifications are stored under "system".
func NormalizeNotificationCategory(category string) NotificationCategory {
	switch NotificationCategory(category) {
	case NotificationCategoryEvent, NotificationCategoryGroup, NotificationCategoryVolunteer, NotificationCategorySystem:
		return NotificationCategory(category)
	default:
		return NotificationCategorySystem
	}
}

// Notification is an in-app message row written for a user.
type Notification struct {
	ID        int64
	UserID    int64
	Title     string
	Message   string
	Category  NotificationCategory
	RelatedID *int64
	CreatedAt time.Time
}
