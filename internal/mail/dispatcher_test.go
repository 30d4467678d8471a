package mail

import (
	"testing"

	"shopdesk/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMessage_MissingRecipientFailsBeforeDialing(t *testing.T) {
	order := &domain.Order{ID: uuid.New(), CustomerName: "Jane"}

	_, err := buildMessage(order, []byte("%PDF-1.4"), "noreply@example.com", "Northstar Trading")
	assert.ErrorIs(t, err, ErrMissingRecipient)
}

func TestBuildMessage_ConstructsEnvelope(t *testing.T) {
	order := &domain.Order{
		ID:           uuid.New(),
		CustomerName: "Jane",
		Email:        "j@x.com",
	}

	msg, err := buildMessage(order, []byte("%PDF-1.4"), "noreply@example.com", "Northstar Trading")
	require.NoError(t, err)
	require.NotNil(t, msg)

	attachments := msg.GetAttachments()
	require.Len(t, attachments, 1)
	assert.Equal(t, AttachmentName(order), attachments[0].Name)
}

func TestSubjectEmbedsOrderID(t *testing.T) {
	order := &domain.Order{ID: uuid.New()}

	subject := Subject(order, "Northstar Trading")
	assert.Contains(t, subject, order.ID.String())
	assert.Contains(t, subject, "Request Copy")
}

func TestBodyFallsBackToGenericCustomer(t *testing.T) {
	named := &domain.Order{ID: uuid.New(), CustomerName: "Jane"}
	assert.Contains(t, Body(named, "Northstar Trading"), "Hello Jane,")

	anonymous := &domain.Order{ID: uuid.New()}
	assert.Contains(t, Body(anonymous, "Northstar Trading"), "Hello Customer,")
}

func TestAttachmentNameIsDeterministic(t *testing.T) {
	order := &domain.Order{ID: uuid.New()}
	assert.Equal(t, "request-copy-"+order.ID.String()+".pdf", AttachmentName(order))
	assert.Equal(t, AttachmentName(order), AttachmentName(order))
}
