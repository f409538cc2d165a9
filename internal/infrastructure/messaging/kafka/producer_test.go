package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MolForge-AI/internal/domain/batch"
	"github.com/turtacn/MolForge-AI/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolForge-AI/pkg/errors"
)

type fakeWriter struct {
	messages []kafka.Message
	writeErr error
	closed   bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testProducer(w writer) *Producer {
	p := newProducer(w, logging.NewNopLogger())
	p.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return p
}

func TestProducerBatchCompleted(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := testProducer(w)

	b := &batch.PipelineBatch{
		BatchID: uuid.New(),
		Kind:    batch.KindGenerate,
		ModelID: "gpt-4o",
	}
	require.NoError(t, p.BatchCompleted(context.Background(), b))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, TopicBatchCompleted, msg.Topic)
	assert.Equal(t, b.BatchID.String(), string(msg.Key))

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	assert.Equal(t, "batch.completed", envelope.Type)
	assert.Equal(t, EnvelopeVersion, envelope.Version)
	assert.NotEqual(t, uuid.Nil, envelope.EventID)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), envelope.Timestamp)

	var decoded batch.PipelineBatch
	require.NoError(t, json.Unmarshal(envelope.Payload, &decoded))
	assert.Equal(t, b.BatchID, decoded.BatchID)
}

func TestProducerBatchFailed(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := testProducer(w)

	require.NoError(t, p.BatchFailed(context.Background(), batch.KindOptimize, "completion failed"))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	assert.Equal(t, TopicBatchFailed, msg.Topic)
	assert.Equal(t, "optimize", string(msg.Key))

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(msg.Value, &envelope))
	var payload BatchFailedPayload
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, "optimize", payload.Kind)
	assert.Equal(t, "completion failed", payload.Reason)
}

func TestProducerWriteFailure(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{writeErr: context.DeadlineExceeded}
	p := testProducer(w)

	err := p.BatchFailed(context.Background(), batch.KindGenerate, "x")
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessageQueueError))
}

func TestProducerClosedRejectsPublish(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := testProducer(w)
	require.NoError(t, p.Close())
	assert.True(t, w.closed)

	err := p.BatchCompleted(context.Background(), &batch.PipelineBatch{BatchID: uuid.New()})
	assert.True(t, errors.IsCode(err, errors.ErrCodeMessageQueueError))
	assert.Empty(t, w.messages)

	// Close is idempotent.
	require.NoError(t, p.Close())
}
