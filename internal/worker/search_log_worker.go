package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"gopherai-qa/internal/model"
	"gopherai-qa/internal/platform/rabbitmq"
)

type SearchLogWriter interface {
	Create(ctx context.Context, entry *model.SearchLog) error
}

// SearchLogWorker drains the search log queue into the search_logs table.
type SearchLogWorker struct {
	conn      *amqp.Connection
	writer    SearchLogWriter
	queueName string
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSearchLogWorker(conn *amqp.Connection, writer SearchLogWriter, queueName string, logger *zap.Logger) *SearchLogWorker {
	return &SearchLogWorker{
		conn:      conn,
		writer:    writer,
		queueName: queueName,
		logger:    logger,
	}
}

func (w *SearchLogWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	if _, err := rabbitmq.DeclareQueue(ch, w.queueName); err != nil {
		_ = ch.Close()
		cancel()
		return err
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				w.process(workerCtx, d.Body, d)
			}
		}
	}()

	return nil
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

// process decodes and stores one payload. Bad payloads and failed writes are
// dropped rather than requeued.
func (w *SearchLogWorker) process(ctx context.Context, body []byte, ack acknowledger) {
	var entry model.SearchLog
	if err := json.Unmarshal(body, &entry); err != nil {
		w.logger.Warn("decode search log failed", zap.Error(err))
		_ = ack.Nack(false, false)
		return
	}
	entry.ID = 0

	if err := w.writer.Create(ctx, &entry); err != nil {
		w.logger.Warn("persist search log failed", zap.Error(err), zap.String("query", entry.Query))
		_ = ack.Nack(false, false)
		return
	}
	_ = ack.Ack(false)
}

func (w *SearchLogWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
