package notify

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"lead-dispatcher/internal/common/errors"
	"lead-dispatcher/internal/common/logger"
	"lead-dispatcher/internal/models"
)

// ==========================
// Mock Sender
// ==========================

type MockSender struct {
	mock.Mock
	name string
}

func (m *MockSender) Name() string { return m.name }

func (m *MockSender) Send(ctx context.Context, msg models.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func validMessage() models.Message {
	return models.Message{
		From:     "onboarding@resend.dev",
		To:       []string{"dispatch@example.com", "5551234567@txt.att.net"},
		Subject:  "🚨 EMERGENCY LEAD: 742 Evergreen Terrace",
		Text:     "NEW EMERGENCY WATER DAMAGE DOSSIER",
		Category: models.CategoryWaterEmergency,
	}
}

func TestDispatch_Success(t *testing.T) {
	primary := &MockSender{name: "primary"}
	primary.On("Send", mock.Anything, validMessage()).Return(nil).Once()

	d := NewDispatcher(primary, time.Second, logger.NewTestLogger(t))
	require.NoError(t, d.Dispatch(context.Background(), validMessage()))

	primary.AssertExpectations(t)
	assert.Equal(t, "primary", d.Provider())
}

func TestDispatch_AppliesTimeout(t *testing.T) {
	primary := &MockSender{name: "primary"}
	primary.On("Send", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(nil).Once()

	d := NewDispatcher(primary, 50*time.Millisecond, logger.NewTestLogger(t))
	require.NoError(t, d.Dispatch(context.Background(), validMessage()))
	primary.AssertExpectations(t)
}

func TestDispatch_PrimaryFailureStillFansOut(t *testing.T) {
	primary := &MockSender{name: "resend"}
	primary.On("Send", mock.Anything, mock.Anything).Return(stderrors.New("401 unauthorized")).Once()

	topic := &MockSender{name: "sns"}
	topic.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	d := NewDispatcher(primary, time.Second, logger.NewTestLogger(t), topic)
	err := d.Dispatch(context.Background(), validMessage())
	require.Error(t, err)

	primary.AssertExpectations(t)
	topic.AssertExpectations(t)

	errs := multierr.Errors(err)
	require.Len(t, errs, 1)

	var stdErr *errors.StandardError
	require.True(t, stderrors.As(errs[0], &stdErr))
	assert.Equal(t, errors.ErrCodeNotificationSendFailed, stdErr.Code)
	assert.True(t, stdErr.Retryable)
	assert.Equal(t, "resend", stdErr.Metadata["provider"])
}

func TestDispatch_AllFailuresCombined(t *testing.T) {
	primary := &MockSender{name: "ses"}
	primary.On("Send", mock.Anything, mock.Anything).Return(stderrors.New("throttled")).Once()
	topic := &MockSender{name: "sns"}
	topic.On("Send", mock.Anything, mock.Anything).Return(stderrors.New("no topic")).Once()

	d := NewDispatcher(primary, 0, logger.NewTestLogger(t), topic)
	err := d.Dispatch(context.Background(), validMessage())

	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "throttled")
	assert.Contains(t, err.Error(), "no topic")
}

func TestDispatch_InvalidMessageNotSent(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.Message)
	}{
		{"no recipients", func(m *models.Message) { m.To = nil }},
		{"empty recipient list", func(m *models.Message) { m.To = []string{} }},
		{"bad recipient", func(m *models.Message) { m.To = []string{"not an address"} }},
		{"bad sender", func(m *models.Message) { m.From = "" }},
		{"empty subject", func(m *models.Message) { m.Subject = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &MockSender{name: "primary"}
			d := NewDispatcher(primary, time.Second, logger.NewTestLogger(t))

			msg := validMessage()
			tt.mutate(&msg)

			err := d.Dispatch(context.Background(), msg)
			require.Error(t, err)

			var stdErr *errors.StandardError
			require.True(t, stderrors.As(err, &stdErr))
			assert.Equal(t, errors.ErrCodeNotificationValidationFailed, stdErr.Code)
			primary.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestLogSender(t *testing.T) {
	s := NewLogSender(logger.NewTestLogger(t))
	assert.Equal(t, "log", s.Name())
	assert.NoError(t, s.Send(context.Background(), validMessage()))
}
