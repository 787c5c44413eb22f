package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"gopherai-qa/internal/model"
)

type SearchLogPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewSearchLogPublisher(conn *amqp.Connection, queueName string) *SearchLogPublisher {
	return &SearchLogPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *SearchLogPublisher) Publish(ctx context.Context, entry model.SearchLog) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if _, err := DeclareQueue(ch, p.queueName); err != nil {
		return err
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal search log payload failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish search log failed: %w", err)
	}
	return nil
}
