// Package events publica en Kafka los eventos de livraison (alta, edición, baja).
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/Stock-api/internal/application/ports"
)

var _ ports.DeliveryEventPublisher = (*KafkaPublisher)(nil)

// messageWriter es el subconjunto de *kafka.Writer que se usa.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher serializa el evento en JSON con clave = número de BL, de modo que todos los
// eventos de un mismo BL caen en la misma partición y conservan su orden.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher crea el writer hacia topic.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return newKafkaPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	})
}

func newKafkaPublisher(w messageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

// PublishDelivery escribe el evento. El contexto de traza viaja en los headers del mensaje.
func (p *KafkaPublisher) PublishDelivery(ctx context.Context, event ports.DeliveryEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.NumeroBL),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	carrier := headerCarrier{msg: &msg}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar evento %s (%s): %w", event.Type, event.NumeroBL, err)
	}
	return nil
}

// Close vacía los mensajes pendientes y cierra las conexiones.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// headerCarrier adapta los headers de kafka.Message a propagation.TextMapCarrier.
type headerCarrier struct {
	msg *kafka.Message
}

func (c headerCarrier) Get(key string) string {
	for _, h := range c.msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	for i, h := range c.msg.Headers {
		if h.Key == key {
			c.msg.Headers[i].Value = []byte(value)
			return
		}
	}
	c.msg.Headers = append(c.msg.Headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c.msg.Headers))
	for _, h := range c.msg.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}
