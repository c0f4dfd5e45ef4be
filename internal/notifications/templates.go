package notifications

import (
	"fmt"

	"gymvy/internal/models"
)

// PushTitle is the title carried by every push.
const PushTitle = "Gymvy"

var bodyTemplates = map[models.NotificationType]string{
	models.NotificationLike:        "%s liked your post",
	models.NotificationComment:     "%s commented on your post",
	models.NotificationFollow:      "%s started following you",
	models.NotificationTag:         "%s tagged you in a post",
	models.NotificationCommentLike: "%s liked your comment",
}

const fallbackTemplate = "%s interacted with you"

// Render returns the title and body for a notification of type t by actorName.
func Render(t models.NotificationType, actorName string) (title, body string) {
	tmpl, ok := bodyTemplates[t]
	if !ok {
		tmpl = fallbackTemplate
	}
	return PushTitle, fmt.Sprintf(tmpl, actorName)
}
