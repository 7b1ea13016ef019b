package realtime

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-amqp/pkg/amqp"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"

	"stay-booking/services"
)

// Bus publishes domain events. It implements services.EventPublisher.
type Bus struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Sequencer  *Sequencer
	Now        func() time.Time
	closers    []func() error
}

var _ services.EventPublisher = (*Bus)(nil)

// NewGoChannelBus keeps events inside the process. Publish waits for the subscriber ack,
// so events from one publisher arrive in the order they were sent.
func NewGoChannelBus(seq *Sequencer, logger watermill.LoggerAdapter) *Bus {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            64,
		BlockPublishUntilSubscriberAck: true,
	}, logger)
	return &Bus{Publisher: ch, Subscriber: ch, Sequencer: seq, Now: time.Now, closers: []func() error{ch.Close}}
}

// NewAMQPBus fans events out to every instance; each one binds its own non-durable queue.
func NewAMQPBus(url, instanceID string, seq *Sequencer, logger watermill.LoggerAdapter) (*Bus, error) {
	cfg := amqp.NewNonDurablePubSubConfig(url, amqp.GenerateQueueNameTopicNameWithSuffix(instanceID))
	pub, err := amqp.NewPublisher(cfg, logger)
	if err != nil {
		return nil, err
	}
	sub, err := amqp.NewSubscriber(cfg, logger)
	if err != nil {
		_ = pub.Close()
		return nil, err
	}
	return &Bus{Publisher: pub, Subscriber: sub, Sequencer: seq, Now: time.Now, closers: []func() error{sub.Close, pub.Close}}, nil
}

func (b *Bus) publish(ctx context.Context, topic string, v interface{}) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	return b.Publisher.Publish(topic, msg)
}

func (b *Bus) WishlistChanged(ctx context.Context, userID, experienceID string, added bool) error {
	seq, err := b.Sequencer.Next(ctx, userID)
	if err != nil {
		return err
	}
	op := OpDelete
	if added {
		op = OpInsert
	}
	return b.publish(ctx, TopicWishlistChanges, WishlistChanged{
		Seq:          seq,
		UserID:       userID,
		ExperienceID: experienceID,
		Op:           op,
		At:           b.Now(),
	})
}

func (b *Bus) AuthStateChanged(ctx context.Context, event, authID, email string) error {
	return b.publish(ctx, TopicAuthEvents, AuthStateChanged{Event: event, AuthID: authID, Email: email, At: b.Now()})
}

func (b *Bus) Close() error {
	var first error
	for _, c := range b.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
