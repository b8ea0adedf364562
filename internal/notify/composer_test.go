package notify

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taller-manrubia/workshop-service/internal/domain"
)

func finishedTicket(billing *domain.Billing) *domain.Ticket {
	now := time.Now()
	return &domain.Ticket{
		ID:            "t1",
		CustomerName:  "Ana",
		CustomerPhone: "600 11 22 33",
		Status:        domain.TicketStatusFinished,
		FinishedAt:    &now,
		Billing:       billing,
	}
}

func TestComposeFlatMessage(t *testing.T) {
	composer := NewComposer("Bicicletas Manrubia", "964 667 035", LinkModeDirect)
	msg, err := composer.Compose(finishedTicket(&domain.Billing{Total: 25.5}))
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "Bicicletas Manrubia")
	assert.Contains(t, msg.Text, "Total: 25.5€")
	assert.Contains(t, msg.Text, "964 667 035")
	assert.NotContains(t, msg.Text, "*Total")
}

func TestComposeItemizedMessage(t *testing.T) {
	composer := NewComposer("Bicicletas Manrubia", "964 667 035", LinkModeDirect)
	msg, err := composer.Compose(finishedTicket(&domain.Billing{
		Total: 25.5,
		Breakdown: []domain.LineItem{
			{Label: "Brakes", Amount: 10},
			{Label: "Tires", Amount: 15.5},
		},
	}))
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "- Brakes: 10€")
	assert.Contains(t, msg.Text, "- Tires: 15.5€")
	assert.Contains(t, msg.Text, "*Total: 25.5€*")
	assert.Contains(t, msg.Text, "964 667 035")
}

func TestComposeDeepLinkDirect(t *testing.T) {
	composer := NewComposer("Bicicletas Manrubia", "964 667 035", LinkModeDirect)
	msg, err := composer.Compose(finishedTicket(&domain.Billing{Total: 30}))
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(msg.DeepLink, "https://wa.me/34600112233?text="), msg.DeepLink)

	parsed, err := url.Parse(msg.DeepLink)
	require.NoError(t, err)
	assert.Equal(t, msg.Text, parsed.Query().Get("text"))
}

func TestComposeDeepLinkWeb(t *testing.T) {
	composer := NewComposer("Bicicletas Manrubia", "964 667 035", LinkModeWeb)
	msg, err := composer.Compose(finishedTicket(&domain.Billing{Total: 30}))
	require.NoError(t, err)

	parsed, err := url.Parse(msg.DeepLink)
	require.NoError(t, err)
	assert.Equal(t, "api.whatsapp.com", parsed.Host)
	assert.Equal(t, "34600112233", parsed.Query().Get("phone"))
	assert.Equal(t, msg.Text, parsed.Query().Get("text"))
}

func TestComposeRejectsUnfinishedTicket(t *testing.T) {
	composer := NewComposer("Bicicletas Manrubia", "964 667 035", LinkModeDirect)

	_, err := composer.Compose(&domain.Ticket{Status: domain.TicketStatusInProgress})
	assert.Error(t, err)

	ticket := finishedTicket(nil)
	_, err = composer.Compose(ticket)
	assert.Error(t, err)
}
