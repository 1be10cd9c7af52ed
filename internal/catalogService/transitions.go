package catalog

import (
	"fmt"

	"antique-catalog/internal/models"
	"antique-catalog/internal/notify"
)

// Kind identifies which collection a transition belongs to
type Kind string

const (
	KindSubmission Kind = "submission"
	KindOffer      Kind = "offer"
)

// unavailableItem labels an offer whose product no longer exists
const unavailableItem = "unavailable item"

type template struct {
	severity notify.Severity
	format   string
}

type messagePair struct {
	admin   template
	endUser template
}

// transitionMessages holds one admin and one end-user message for every
// status a submission or offer can move to.
var transitionMessages = map[Kind]map[models.ReviewStatus]messagePair{
	KindSubmission: {
		models.StatusApproved: {
			admin:   template{notify.SeveritySuccess, `Submission "%s" has been approved. You can now add it to the shop from the Products tab.`},
			endUser: template{notify.SeveritySuccess, `Your submission "%s" has been approved! We will contact you to arrange collection.`},
		},
		models.StatusRejected: {
			admin:   template{notify.SeverityInfo, `Submission "%s" has been rejected.`},
			endUser: template{notify.SeverityError, `Your submission "%s" has been rejected. Please review comparable items in our shop for pricing guidance.`},
		},
	},
	KindOffer: {
		models.StatusApproved: {
			admin:   template{notify.SeveritySuccess, `Offer for "%s" has been approved.`},
			endUser: template{notify.SeveritySuccess, `Your offer for "%s" has been approved! Please complete payment within 24 hours.`},
		},
		models.StatusRejected: {
			admin:   template{notify.SeverityInfo, `Offer for "%s" has been rejected.`},
			endUser: template{notify.SeverityError, `Your offer for "%s" has been rejected. Feel free to browse our other antiques.`},
		},
	},
}

var (
	promotionMessages = messagePair{
		admin:   template{notify.SeveritySuccess, `"%s" has been added to the shop.`},
		endUser: template{notify.SeveritySuccess, `Your item "%s" is now available in the shop!`},
	}

	deletionMessages = map[Kind]template{
		KindSubmission: {notify.SeverityInfo, `Submission "%s" has been deleted.`},
		KindOffer:      {notify.SeverityInfo, `Offer for "%s" has been deleted.`},
	}
)

// TransitionNotifications returns the admin and end-user notifications for
// an item of kind, labelled label, moving to status. It returns nil for a
// status with no message, such as pending.
func TransitionNotifications(kind Kind, status models.ReviewStatus, label string) []notify.Notification {
	pair, ok := transitionMessages[kind][status]
	if !ok {
		return nil
	}
	return pair.render(label)
}

func (p messagePair) render(label string) []notify.Notification {
	return []notify.Notification{
		p.admin.render(notify.AudienceAdmin, label),
		p.endUser.render(notify.AudienceEndUser, label),
	}
}

func (t template) render(audience notify.Audience, label string) notify.Notification {
	return notify.Notification{
		Message:  fmt.Sprintf(t.format, label),
		Severity: t.severity,
		Audience: audience,
	}
}

func deletionNotification(kind Kind, label string) notify.Notification {
	return deletionMessages[kind].render(notify.AudienceAdmin, label)
}
