package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"wtfTube/domain"
	"wtfTube/errs"
	"wtfTube/events"
)

// SubscriptionService manages Subscriptions.
// It implements the domain.SubscriptionService interface.
type SubscriptionService struct {
	subscriptionValidator
}

// subscriptionValidator runs validations on incoming subscription data.
// On success, it passes the data on to subscriptionGorm.
type subscriptionValidator struct {
	subscriptionGorm
}

type subscriptionGorm struct {
	db     *gorm.DB
	events *events.Publisher
}

// NewSubscriptionService returns an instance of SubscriptionService.
func NewSubscriptionService(db *gorm.DB, pub *events.Publisher) *SubscriptionService {
	return &SubscriptionService{
		subscriptionValidator{
			subscriptionGorm{
				db:     db,
				events: pub,
			},
		},
	}
}

var _ domain.SubscriptionService = &SubscriptionService{}

// ToggleSubscription runs validations needed for toggling a subscription,
// then applies the toggle.
func (sv *subscriptionValidator) ToggleSubscription(ctx context.Context, viewer *domain.User, channelID int) (bool, error) {
	if viewer == nil || viewer.ID <= 0 {
		return false, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in to subscribe.")
	}
	if channelID <= 0 {
		return false, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	if channelID == viewer.ID {
		return false, errs.Errorf(errs.EINVALID, "You cannot subscribe to your own channel.")
	}
	err := sv.db.WithContext(ctx).First(&domain.User{}, "id = ?", channelID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, errs.Errorf(errs.ENOTFOUND, "Channel not found.")
		}
		return false, err
	}
	return sv.subscriptionGorm.toggle(ctx, viewer.ID, channelID)
}

// toggle deletes an existing subscription edge or inserts a fresh one,
// inside one transaction. The unique (subscriber_id, channel_id) index is
// the only guard against concurrent duplicate inserts, same as the
// reaction store.
func (sg *subscriptionGorm) toggle(ctx context.Context, subscriberID, channelID int) (bool, error) {
	subscribed := false
	err := sg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Subscription
		err := tx.
			Where("subscriber_id = ? AND channel_id = ?", subscriberID, channelID).
			First(&existing).Error
		if err == nil {
			return tx.Delete(&existing).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		edge := domain.Subscription{SubscriberID: subscriberID, ChannelID: channelID}
		if err := tx.Create(&edge).Error; err != nil {
			return err
		}
		subscribed = true
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, errs.Errorf(errs.EINTERNAL, "The subscription was changed concurrently, please retry.")
		}
		return false, errs.Errorf(errs.EINTERNAL, "Something went wrong while toggling the subscription.")
	}
	sg.events.SubscriptionToggled(subscriberID, channelID, subscribed)
	return subscribed, nil
}

// SubscribersOf lists the users subscribed to a channel.
func (sg *subscriptionGorm) SubscribersOf(ctx context.Context, viewer *domain.User, channelID int) ([]domain.Channel, error) {
	if channelID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return sg.channelList(ctx, viewer, "subscriptions.channel_id = ?", "subscriptions.subscriber_id", channelID)
}

// ChannelsOf lists the channels a user is subscribed to.
func (sg *subscriptionGorm) ChannelsOf(ctx context.Context, viewer *domain.User, userID int) ([]domain.Channel, error) {
	if userID <= 0 {
		return nil, errs.Errorf(errs.EINVALID, "Invalid Id format.")
	}
	return sg.channelList(ctx, viewer, "subscriptions.subscriber_id = ?", "subscriptions.channel_id", userID)
}

// channelList resolves one side of the subscription edge set into Channel
// sub-documents: public author fields plus each listed user's own
// subscriber count and the viewer's subscription state toward them.
func (sg *subscriptionGorm) channelList(ctx context.Context, viewer *domain.User, where, userColumn string, id int) ([]domain.Channel, error) {
	type userRow struct {
		ID       int
		Username string
		FullName string
		Avatar   string
	}
	var rows []userRow
	err := sg.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Select("users.id, users.username, users.full_name, users.avatar").
		Joins("JOIN users ON users.id = "+userColumn).
		Where(where, id).
		Order("subscriptions.created_at ASC, subscriptions.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []domain.Channel{}, nil
	}

	ids := make([]int, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}

	type countRow struct {
		ChannelID int
		N         int
	}
	var counts []countRow
	err = sg.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Select("channel_id, COUNT(*) AS n").
		Where("channel_id IN ?", ids).
		Group("channel_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	countByID := make(map[int]int, len(counts))
	for _, c := range counts {
		countByID[c.ChannelID] = c.N
	}

	subscribedByID := make(map[int]bool)
	if viewer != nil {
		var mine []domain.Subscription
		err = sg.db.WithContext(ctx).
			Where("subscriber_id = ? AND channel_id IN ?", viewer.ID, ids).
			Find(&mine).Error
		if err != nil {
			return nil, err
		}
		for _, edge := range mine {
			subscribedByID[edge.ChannelID] = true
		}
	}

	channels := make([]domain.Channel, 0, len(rows))
	for _, row := range rows {
		channels = append(channels, domain.Channel{
			Author: domain.Author{
				Username: row.Username,
				FullName: row.FullName,
				Avatar:   row.Avatar,
			},
			SubscribersCount: countByID[row.ID],
			IsSubscribed:     subscribedByID[row.ID],
		})
	}
	return channels, nil
}
