package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Stock-api/internal/application/ports"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_PublishDelivery(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w)
	event := ports.DeliveryEvent{
		Type:           ports.EventLivraisonCreated,
		LivraisonID:    "l-1",
		NumeroBL:       "1/2025",
		ArticleRef:     "ART-A",
		QuantiteLivree: 60,
		DateLivraison:  "2025-01-12",
		StockAfter:     40,
		OccurredAt:     time.Date(2025, 1, 12, 10, 0, 0, 0, time.UTC),
	}

	require.NoError(t, p.PublishDelivery(context.Background(), event))
	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "1/2025", string(msg.Key))
	assert.Equal(t, ports.EventLivraisonCreated, headerCarrier{msg: &msg}.Get("event-type"))

	var decoded ports.DeliveryEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, event.NumeroBL, decoded.NumeroBL)
	assert.Equal(t, 40, decoded.StockAfter)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_ErrorDelWriter(t *testing.T) {
	p := newKafkaPublisher(&fakeWriter{err: errors.New("broker caído")})
	err := p.PublishDelivery(context.Background(), ports.DeliveryEvent{Type: ports.EventLivraisonDeleted, NumeroBL: "3/2025"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3/2025")
}

func TestHeaderCarrier(t *testing.T) {
	msg := kafka.Message{}
	c := headerCarrier{msg: &msg}
	c.Set("traceparent", "a")
	c.Set("traceparent", "b")
	c.Set("baggage", "k=v")
	assert.Equal(t, "b", c.Get("traceparent"))
	assert.Equal(t, "", c.Get("missing"))
	assert.ElementsMatch(t, []string{"traceparent", "baggage"}, c.Keys())
}
