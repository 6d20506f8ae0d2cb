package email

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
)

func TestNewNotifierWithoutKeyIsNoop(t *testing.T) {
	n := NewNotifier(Config{}, logging.NewDiscardLogger())
	_, ok := n.(*NoopNotifier)
	require.True(t, ok)
	assert.NoError(t, n.NotifyLead(context.Background(), Lead{Kind: LeadContact, Name: "A"}))
}

func TestRenderDonationLead(t *testing.T) {
	subject, html, err := renderLead(Lead{
		Kind:        LeadDonation,
		Name:        "Sam <script>",
		Email:       "sam@example.org",
		Amount:      "₹500",
		SubmittedAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "New donation pledge from Sam <script>", subject)
	assert.Contains(t, html, "Sam &lt;script&gt;")
	assert.Contains(t, html, "₹500")
	assert.Contains(t, html, "Mar 1, 2025")
}

func TestRenderContactLead(t *testing.T) {
	subject, html, err := renderLead(Lead{Kind: LeadContact, Name: "Ali", Email: "ali@example.org", Message: "Can I volunteer?"})
	require.NoError(t, err)
	assert.Equal(t, "New contact message from Ali", subject)
	assert.Contains(t, html, "Can I volunteer?")
	assert.NotContains(t, html, "Amount")
}
