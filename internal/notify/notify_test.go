package notify

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type published struct {
	exchange, key string
	msg           amqp.Publishing
}

type fakeChannel struct {
	sent   []published
	closed int
	err    error
}

func (f *fakeChannel) Publish(exchange, key string, _, _ bool, msg amqp.Publishing) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, published{exchange: exchange, key: key, msg: msg})
	return nil
}

func (f *fakeChannel) Close() error {
	f.closed++
	return nil
}

func TestAMQPNotifier_Publishes(t *testing.T) {
	ch := &fakeChannel{}
	n := &AMQPNotifier{open: func() (channel, error) { return ch, nil }}

	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	err := n.Notify(context.Background(), Update{
		RunID:     "run-1",
		Phase:     "phase1_screening",
		Status:    StatusSucceeded,
		Message:   "screening saved",
		Timestamp: at,
	})
	require.NoError(t, err)
	require.Len(t, ch.sent, 1)
	assert.Equal(t, 1, ch.closed)

	got := ch.sent[0]
	assert.Equal(t, Exchange, got.exchange)
	assert.Equal(t, "pipeline.run-1", got.key)
	assert.Equal(t, "application/json", got.msg.ContentType)

	var body map[string]any
	require.NoError(t, json.Unmarshal(got.msg.Body, &body))
	assert.Equal(t, "run-1", body["run_id"])
	assert.Equal(t, "phase1_screening", body["phase"])
	assert.Equal(t, "succeeded", body["status"])
	assert.NotContains(t, body, "candidate_id")
}

func TestAMQPNotifier_FillsTimestamp(t *testing.T) {
	ch := &fakeChannel{}
	n := &AMQPNotifier{open: func() (channel, error) { return ch, nil }}

	require.NoError(t, n.Notify(context.Background(), Update{RunID: "r", Status: StatusStarted}))
	assert.False(t, ch.sent[0].msg.Timestamp.IsZero())
}

func TestAMQPNotifier_Errors(t *testing.T) {
	n := &AMQPNotifier{open: func() (channel, error) { return nil, errors.New("connection closed") }}
	assert.EqualError(t, n.Notify(context.Background(), Update{RunID: "r"}), "connection closed")

	ch := &fakeChannel{err: errors.New("exchange not found")}
	n = &AMQPNotifier{open: func() (channel, error) { return ch, nil }}
	assert.Error(t, n.Notify(context.Background(), Update{RunID: "r"}))
	assert.Equal(t, 1, ch.closed)
}

func TestAMQPNotifier_RequiresRunID(t *testing.T) {
	ch := &fakeChannel{}
	n := &AMQPNotifier{open: func() (channel, error) { return ch, nil }}

	assert.Error(t, n.Notify(context.Background(), Update{CandidateID: "cand-1", Status: StatusFailed}))
	assert.Empty(t, ch.sent)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Notify(context.Background(), Update{}))
}
