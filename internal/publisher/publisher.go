package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/solstocks/trading-gateway/internal/metrics"
	"github.com/solstocks/trading-gateway/pkg/logger"
	"github.com/solstocks/trading-gateway/pkg/model"
)

// jetStream is the slice of nats.JetStreamContext the publisher needs.
type jetStream interface {
	PublishMsg(msg *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher wraps a NATS connection and provides helpers for publishing
// canonical payment events.
type Publisher struct {
	nc      *nats.Conn
	js      jetStream
	subject string
	stream  string
	service string
}

// New creates a new Publisher with JetStream enabled. stream, when set,
// pins every publish to that JetStream stream (the server rejects the
// message if the subject resolves elsewhere).
func New(nc *nats.Conn, subject, stream, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{
		nc:      nc,
		js:      js,
		subject: subject,
		stream:  stream,
		service: service,
	}, nil
}

// PublishEnvelope serializes and publishes a canonical event envelope to NATS.
func (p *Publisher) PublishEnvelope(ctx context.Context, subject string, env *model.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		logger.S().Errorw("publisher.marshal_failed",
			"subject", subject,
			"event_type", env.EventType,
			"error", err,
		)
		metrics.IncError("publisher", "marshal_failed")
		return err
	}

	if subject == "" {
		subject = p.subject
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header: nats.Header{
			"event_type":     []string{env.EventType},
			"correlation_id": []string{env.CorrelationID.String()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
		},
	}

	var opts []nats.PubOpt
	if p.stream != "" {
		opts = append(opts, nats.ExpectStream(p.stream))
	}

	start := time.Now()
	_, err = p.js.PublishMsg(msg, opts...)
	metrics.ObserveDuration(metrics.NATSMessageLatency, start, subject)

	if err != nil {
		logger.S().Errorw("publisher.publish_failed",
			"subject", subject,
			"event_type", env.EventType,
			"error", err,
		)
		metrics.IncNATSMessage(subject, "error")
		return err
	}

	metrics.IncNATSMessage(subject, "ok")
	return nil
}

// PublishPaymentStatus emits a payment.<status> event for a ledger record.
// walletAddress identifies the paying wallet and may be empty when no
// identity is connected.
func (p *Publisher) PublishPaymentStatus(ctx context.Context, rec *model.PaymentRecord, walletAddress string) error {
	evt := model.PaymentStatusEvent{
		Reference:   rec.Reference,
		Symbol:      rec.Symbol,
		Status:      rec.Status,
		TxSignature: rec.TxSignature,
		Timestamp:   time.Now().UTC(),
	}

	eventType := "payment." + string(rec.Status)
	subject := p.subject + "." + string(rec.Status)

	env := &model.Envelope{
		ID:            uuid.New(),
		CorrelationID: uuid.New(),
		WalletAddress: walletAddress,
		Topic:         subject,
		EventType:     eventType,
		Version:       "1.0.0",
		Timestamp:     time.Now().UTC(),
	}
	env.Payload, _ = json.Marshal(evt)

	return p.PublishEnvelope(ctx, subject, env)
}

func (p *Publisher) Close() {
	if p.nc != nil && p.nc.IsConnected() {
		p.nc.Close()
	}
}
