package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestProducer_PublishEvent(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w}

	err := p.PublishEvent(context.Background(), TopicBasket, "42", map[string]any{
		"type":     "basket_device_added",
		"userID":   42,
		"quantity": 5,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicBasket, msg.Topic)
	assert.Equal(t, []byte("42"), msg.Key)

	var event map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &event))
	assert.Equal(t, "basket_device_added", event["type"])
	assert.EqualValues(t, 5, event["quantity"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestProducer_PublishEvent_Errors(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}}
	err := p.PublishEvent(context.Background(), TopicUser, "1", map[string]any{"type": "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")

	err = p.PublishEvent(context.Background(), TopicUser, "1", make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json.Marshal")
}

func TestNew_WithoutBrokersIsNop(t *testing.T) {
	p := New(nil)
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.PublishEvent(context.Background(), TopicUser, "1", nil))
	assert.NoError(t, p.Close())

	assert.IsType(t, &Producer{}, New([]string{"kafka:9092"}))
}
