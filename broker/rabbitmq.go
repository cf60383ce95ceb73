package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yeremiapane/buffet-app/models"
	"github.com/yeremiapane/buffet-app/utils"
)

const (
	publishTimeout = 5 * time.Second
	routingPrefix  = "buffet."
)

// amqpChannel is the part of *amqp.Channel the publisher uses.
type amqpChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	NotifyClose(receiver chan *amqp.Error) chan *amqp.Error
	Close() error
}

type amqpConnection interface {
	Channel() (amqpChannel, error)
	Close() error
}

// Dialer opens a connection to the broker.
type Dialer func(url string) (amqpConnection, error)

type dialedConnection struct {
	conn *amqp.Connection
}

func (d dialedConnection) Channel() (amqpChannel, error) { return d.conn.Channel() }
func (d dialedConnection) Close() error                  { return d.conn.Close() }

func dialAMQP(url string) (amqpConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return dialedConnection{conn: conn}, nil
}

// RabbitMQ publishes floor events to a topic exchange. Routing keys are
// "buffet.<kind>", e.g. "buffet.bill_created". A dropped connection or
// channel is re-dialed on the next publish, with the exchange declared
// again.
type RabbitMQ struct {
	URL      string
	Exchange string
	dial     Dialer

	mu      sync.Mutex
	conn    amqpConnection
	channel amqpChannel
	closed  chan *amqp.Error
}

// ConnectRabbitMQ dials the broker once; later outages are handled by
// Publish.
func ConnectRabbitMQ(url, exchange string) (*RabbitMQ, error) {
	r := newRabbitMQ(url, exchange, dialAMQP)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.connect(); err != nil {
		return nil, err
	}
	return r, nil
}

func newRabbitMQ(url, exchange string, dial Dialer) *RabbitMQ {
	return &RabbitMQ{URL: url, Exchange: exchange, dial: dial}
}

// connect must be called with mu held.
func (r *RabbitMQ) connect() error {
	conn, err := r.dial(r.URL)
	if err != nil {
		return fmt.Errorf("dial rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		r.Exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange %s: %w", r.Exchange, err)
	}

	r.conn = conn
	r.channel = channel
	r.closed = channel.NotifyClose(make(chan *amqp.Error, 1))

	utils.InfoLogger.WithField("exchange", r.Exchange).Info("Connected to RabbitMQ")
	return nil
}

// ensureChannel must be called with mu held.
func (r *RabbitMQ) ensureChannel() error {
	if r.channel != nil {
		select {
		case amqpErr := <-r.closed:
			utils.ErrorLogger.Printf("RabbitMQ channel closed: %v", amqpErr)
			r.reset()
		default:
			return nil
		}
	}
	return r.connect()
}

// reset drops the current connection; mu must be held.
func (r *RabbitMQ) reset() {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
	r.channel = nil
	r.conn = nil
	r.closed = nil
}

func (r *RabbitMQ) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reset()
}

// Publish sends one event as a persistent JSON message. A failed publish
// drops the connection so the next call starts from a fresh one.
func (r *RabbitMQ) Publish(ctx context.Context, ev models.Event) error {
	msg, err := newPublishing(ev)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureChannel(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = r.channel.PublishWithContext(ctx,
		r.Exchange,     // exchange
		RoutingKey(ev), // routing key
		false,          // mandatory
		false,          // immediate
		msg)
	if err != nil {
		r.reset()
		return fmt.Errorf("publish event %d: %w", ev.ID, err)
	}
	return nil
}

func RoutingKey(ev models.Event) string {
	return routingPrefix + ev.Kind
}

func newPublishing(ev models.Event) (amqp.Publishing, error) {
	body, err := json.Marshal(ev)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("encode event %d: %w", ev.ID, err)
	}
	return amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    fmt.Sprintf("event-%d", ev.ID),
		Type:         ev.Kind,
		Timestamp:    ev.CreatedAt,
		Body:         body,
	}, nil
}
