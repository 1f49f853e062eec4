package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nowa-systems/nowa-go/internal/domain/entities/chat"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/logging"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/observability/performance"
	"github.com/nowa-systems/nowa-go/internal/infrastructure/persistence/escalations"
)

// mockMailer records sends and can be told to fail.
type mockMailer struct {
	sent []*chat.EscalationRecord
	err  error
}

func (m *mockMailer) SendEscalationEmail(_ context.Context, record *chat.EscalationRecord) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, record)
	return nil
}

func newEscalationService(t *testing.T, mailer *mockMailer) (*EscalationService, *escalations.Log) {
	t.Helper()
	log := escalations.NewLog(filepath.Join(t.TempDir(), "escalations.json"), logging.NewTestLogger(t))
	svc := NewEscalationService(log, mailer, nil, "254700000000", logging.NewTestLogger(t), performance.NewTracker())
	return svc, log
}

func validDetails() chat.ContactDetails {
	return chat.ContactDetails{
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Phone:    "+254700000001",
		Question: "Do you build mobile apps?",
	}
}

func TestEscalate_Success(t *testing.T) {
	mailer := &mockMailer{}
	svc, log := newEscalationService(t, mailer)

	transcript := chat.Transcript{
		{Sender: chat.SenderUser, Text: "hi"},
		{Sender: chat.SenderBot, Text: "Hello!"},
	}

	result, err := svc.Escalate(context.Background(), validDetails(), transcript, "test-client")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.NotEmpty(t, result.ID)
	assert.Equal(t,
		"https://wa.me/254700000000?text=New+escalation%3A+Jane+Doe+-+Do+you+build+mobile+apps%3F",
		result.WhatsAppLink)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "Jane Doe", mailer.sent[0].Name)

	records, err := log.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, result.ID, records[0].ID)
	assert.Len(t, records[0].Transcript, 2)
}

func TestEscalate_MissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*chat.ContactDetails)
		missing []string
	}{
		{"no name", func(d *chat.ContactDetails) { d.Name = "" }, []string{"name"}},
		{"no email", func(d *chat.ContactDetails) { d.Email = "  " }, []string{"email"}},
		{"no phone", func(d *chat.ContactDetails) { d.Phone = "" }, []string{"phone"}},
		{"no question", func(d *chat.ContactDetails) { d.Question = "" }, []string{"question"}},
		{"markup-only name", func(d *chat.ContactDetails) { d.Name = "<b></b>" }, []string{"name"}},
		{
			"everything missing",
			func(d *chat.ContactDetails) { *d = chat.ContactDetails{} },
			[]string{"name", "email", "phone", "question"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := &mockMailer{}
			svc, log := newEscalationService(t, mailer)

			details := validDetails()
			tt.mutate(&details)

			_, err := svc.Escalate(context.Background(), details, nil, "test-client")
			require.Error(t, err)

			var validationErr *chat.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.missing, validationErr.Fields)

			// Rejected atomically: nothing persisted, nothing sent
			records, err := log.All()
			require.NoError(t, err)
			assert.Empty(t, records)
			assert.Empty(t, mailer.sent)
		})
	}
}

func TestEscalate_EmailFailureSurfacesButRecordStands(t *testing.T) {
	mailer := &mockMailer{err: errors.New("smtp down")}
	svc, log := newEscalationService(t, mailer)

	result, err := svc.Escalate(context.Background(), validDetails(), nil, "test-client")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escalation email")

	// The log entry was written before the dispatch attempt
	records, logErr := log.All()
	require.NoError(t, logErr)
	require.Len(t, records, 1)
	require.NotNil(t, result)
	assert.Equal(t, records[0].ID, result.ID)
}

func TestEscalate_SanitizesContactDetails(t *testing.T) {
	mailer := &mockMailer{}
	svc, log := newEscalationService(t, mailer)

	details := validDetails()
	details.Name = "<script>alert(1)</script>Jane"
	details.Question = "Need <b>help</b> with a site"

	_, err := svc.Escalate(context.Background(), details, nil, "test-client")
	require.NoError(t, err)

	records, err := log.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Jane", records[0].Name)
	assert.Equal(t, "Need help with a site", records[0].Question)
}
