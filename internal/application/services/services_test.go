package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faseeh100/orphancare-web/internal/application/fetch"
	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/services"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api/apitest"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/email"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/media"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
)

type recordingNotifier struct {
	mu    sync.Mutex
	leads []email.Lead
}

func (n *recordingNotifier) NotifyLead(_ context.Context, lead email.Lead) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, lead)
	return nil
}

func (n *recordingNotifier) Leads() []email.Lead {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]email.Lead(nil), n.leads...)
}

type fixture struct {
	fake    *apitest.Server
	client  *api.Client
	content *services.ContentService
	admin   *services.AdminService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := apitest.New()
	t.Cleanup(fake.Close)

	logger := logging.NewDiscardLogger()
	client := api.NewClient(api.Config{BaseURL: fake.BaseURL(), Timeout: 2 * time.Second}, logger, performance.NewTracker(nil))
	contentService := services.NewContentService(client, fetch.New(time.Second, logger), logger)
	return &fixture{
		fake:    fake,
		client:  client,
		content: contentService,
		admin:   services.NewAdminService(client, contentService, logger),
	}
}

var adminViewer = services.Viewer{Scope: "sess-1", Page: "admin", Token: apitest.AdminToken}

func TestHomeSectionsFailIndependently(t *testing.T) {
	f := newFixture(t)
	f.fake.Configure(func(st *apitest.State) {
		for i := 0; i < 6; i++ {
			st.Programs = append(st.Programs, content.Program{ID: content.ID(string(rune('a' + i))), Title: "P", IsActive: i != 1})
		}
		st.Services = []content.Service{
			{ID: "s1", Name: "Meals", IsActive: true},
			{ID: "s2", Name: "Legal aid", IsActive: false},
			{ID: "s3", Name: "Tutoring", IsActive: true},
		}
	})
	f.fake.SetFailPath("/api/images")

	data := f.content.Home(context.Background(), services.Viewer{Scope: "visitor-1", Page: "home"})

	assert.True(t, data.Images.IsError())
	require.True(t, data.Services.IsReady())
	assert.Len(t, data.Services.Data, 2)
	require.True(t, data.Programs.IsReady())
	assert.Len(t, data.Programs.Data, 4)
	for _, p := range data.Programs.Data {
		assert.True(t, p.IsActive)
	}
	require.True(t, data.Stats.IsReady())
	assert.Equal(t, content.StatOrder[0], data.Stats.Data[0].Key)
}

func TestStatsAlwaysInDisplayOrder(t *testing.T) {
	f := newFixture(t)
	f.fake.Configure(func(st *apitest.State) {
		st.Stats = []content.Stat{{Key: content.StatYearsService, Value: "12"}}
	})

	res := f.content.Stats(context.Background(), services.Viewer{Scope: "v", Page: "about"})
	require.True(t, res.IsReady())
	require.Len(t, res.Data, 4)
	assert.Equal(t, content.StatChildrenHelped, res.Data[0].Key)
	assert.Equal(t, "", res.Data[0].Value)
	assert.Equal(t, "12", res.Data[3].Value)
}

func TestGalleryFilterKeepsCanonicalList(t *testing.T) {
	f := newFixture(t)
	f.fake.Configure(func(st *apitest.State) {
		st.Images = []content.GalleryImage{
			{ID: "1", Category: "events", Size: 100},
			{ID: "2", Category: "children", Size: 200},
			{ID: "3", Category: "events", Size: 300},
		}
	})

	data := f.content.Gallery(context.Background(), services.Viewer{Scope: "v", Page: "gallery"}, "events")
	require.True(t, data.Images.IsReady())
	assert.Len(t, data.Images.Data, 3)
	assert.Len(t, data.Visible, 2)
	assert.Equal(t, []string{"all", "events", "children"}, data.Categories)
	assert.EqualValues(t, 600, data.TotalSize)

	all := f.content.Gallery(context.Background(), services.Viewer{Scope: "v", Page: "gallery"}, "")
	assert.Equal(t, "all", all.Category)
	assert.Len(t, all.Visible, 3)
}

func TestGateWithoutSessionSkipsNetwork(t *testing.T) {
	f := newFixture(t)
	gate := services.NewAuthGate(f.client, 100*time.Millisecond, logging.NewDiscardLogger(), performance.NewTracker(nil))

	res := gate.Check(context.Background(), nil)
	assert.Equal(t, services.DecisionMissing, res.Decision)

	res = gate.Check(context.Background(), &content.Session{Token: "t"})
	assert.Equal(t, services.DecisionMissing, res.Decision)
	assert.Zero(t, f.fake.CountRequests(http.MethodGet, "/api/auth/validate"))
}

func TestGateDecisions(t *testing.T) {
	f := newFixture(t)
	gate := services.NewAuthGate(f.client, 400*time.Millisecond, logging.NewDiscardLogger(), performance.NewTracker(nil))
	ctx := context.Background()
	user := content.AdminUser{ID: "1", Name: "Amina Yusuf"}

	res := gate.Check(ctx, &content.Session{Token: apitest.AdminToken, User: user})
	assert.Equal(t, services.DecisionAuthorized, res.Decision)
	assert.Equal(t, 1, res.Attempts)

	res = gate.Check(ctx, &content.Session{Token: "expired", User: user})
	assert.Equal(t, services.DecisionRejected, res.Decision)
	assert.Equal(t, 1, res.Attempts)

	f.fake.SetValidateStatus(http.StatusBadGateway)
	res = gate.Check(ctx, &content.Session{Token: apitest.AdminToken, User: user})
	assert.Equal(t, services.DecisionUnavailable, res.Decision)
	assert.Greater(t, res.Attempts, 1)
	assert.Error(t, res.Err)
}

func TestToggleServiceReturnsRow(t *testing.T) {
	f := newFixture(t)
	f.fake.Configure(func(st *apitest.State) {
		st.Services = []content.Service{{ID: "s1", Name: "Meals", Category: "Nutrition", IsActive: true}}
	})

	row, err := f.admin.ToggleService(context.Background(), api.Write{Token: apitest.AdminToken}, "s1")
	require.NoError(t, err)
	assert.False(t, row.IsActive)
	assert.Equal(t, "Meals", row.Name)
}

func TestUpdateUserUploadsImageFirst(t *testing.T) {
	f := newFixture(t)
	current := f.fake.Snapshot().Users[0]
	draft := forms.AdminUserDraft{Name: "Amina Y.", Email: "amina@example.org"}
	upload := &forms.Upload{
		Inspection: media.Inspection{Filename: "me.png", MimeType: "image/png", Size: 3},
		Data:       []byte("png"),
	}

	err := f.admin.UpdateUser(context.Background(), api.Write{Token: apitest.AdminToken}, current, draft, upload)
	require.NoError(t, err)

	var order []string
	var putBody map[string]any
	for _, r := range f.fake.Requests() {
		switch {
		case r.Method == http.MethodPost && r.Path == "/api/users/1/profile-image":
			order = append(order, "upload")
		case r.Method == http.MethodPut && r.Path == "/api/users/1":
			order = append(order, "put")
			require.NoError(t, json.Unmarshal(r.Body, &putBody))
		}
	}
	assert.Equal(t, []string{"upload", "put"}, order)
	assert.Equal(t, "/uploads/profiles/me.png", putBody["profileImage"])
	assert.Equal(t, "Amina Y.", f.fake.Snapshot().Users[0].Name)
}

func TestUpdateUserWithoutImageOmitsPath(t *testing.T) {
	f := newFixture(t)
	current := f.fake.Snapshot().Users[0]
	draft := forms.AdminUserDraft{Name: "Amina", Email: "amina@example.org"}

	require.NoError(t, f.admin.UpdateUser(context.Background(), api.Write{Token: apitest.AdminToken}, current, draft, nil))

	for _, r := range f.fake.Requests() {
		if r.Method == http.MethodPut {
			assert.NotContains(t, string(r.Body), "profileImage")
		}
	}
	assert.Zero(t, f.fake.CountRequests(http.MethodPost, "/api/users/1/profile-image"))
}

func TestUploadImageFillsAltText(t *testing.T) {
	f := newFixture(t)
	upload := forms.Upload{
		Inspection: media.Inspection{Filename: "sports-day.jpg", MimeType: "image/jpeg", Size: 4},
		Data:       []byte("jpeg"),
	}

	err := f.admin.UploadImage(context.Background(), api.Write{Token: apitest.AdminToken}, forms.ImageDraft{Category: "events"}, upload)
	require.NoError(t, err)

	images := f.fake.Snapshot().Images
	require.Len(t, images, 1)
	assert.Equal(t, "sports-day", images[0].AltText)
	assert.Equal(t, "events", images[0].Category)
}

func TestAdminWriteWithoutTokenIsRejected(t *testing.T) {
	f := newFixture(t)
	err := f.admin.CreateProgram(context.Background(), api.Write{}, api.ProgramInput{Title: "X", Description: "Y", Icon: "Book"})
	require.Error(t, err)
	assert.True(t, api.IsUnauthorized(err))
	assert.Empty(t, f.fake.Snapshot().Programs)
}

func TestContactLeadNotifiesAfterAPI(t *testing.T) {
	f := newFixture(t)
	notifier := &recordingNotifier{}
	leads := services.NewLeadService(f.client, notifier, logging.NewDiscardLogger())

	msg, err := leads.SubmitContact(context.Background(), api.Write{IdempotencyKey: "k"}, forms.ContactDraft{
		Name: "Ravi", Email: "ravi@example.org", Message: "Can I volunteer on weekends?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Thank you! Your message has been sent.", msg)
	require.Len(t, f.fake.Contacts(), 1)

	got := notifier.Leads()
	require.Len(t, got, 1)
	assert.Equal(t, email.LeadContact, got[0].Kind)
	assert.Equal(t, "Ravi", got[0].Name)
}

func TestContactFailureSkipsNotification(t *testing.T) {
	f := newFixture(t)
	f.fake.SetFailPath("/api/contact/submit")
	notifier := &recordingNotifier{}
	leads := services.NewLeadService(f.client, notifier, logging.NewDiscardLogger())

	_, err := leads.SubmitContact(context.Background(), api.Write{}, forms.ContactDraft{Name: "A", Email: "a@example.org", Message: "Hi"})
	require.Error(t, err)
	assert.Empty(t, notifier.Leads())
}

func TestDonationIsRecorded(t *testing.T) {
	f := newFixture(t)
	notifier := &recordingNotifier{}
	leads := services.NewLeadService(f.client, notifier, logging.NewDiscardLogger())

	leads.RecordDonation(context.Background(), forms.DonationDraft{Name: "Meera", Amount: "1,000"})

	got := notifier.Leads()
	require.Len(t, got, 1)
	assert.Equal(t, email.LeadDonation, got[0].Kind)
	assert.Equal(t, "₹1000", got[0].Amount)
	assert.Empty(t, f.fake.Requests())
}

func TestLoginBuildsSession(t *testing.T) {
	f := newFixture(t)
	auth := services.NewAuthService(f.client, logging.NewDiscardLogger())

	sess, err := auth.Login(context.Background(), api.Write{}, api.Credentials{Email: "amina@example.org", Password: "correct-horse"})
	require.NoError(t, err)
	assert.True(t, sess.Valid())

	_, err = auth.Login(context.Background(), api.Write{}, api.Credentials{Email: "amina@example.org", Password: "nope"})
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", api.UserMessage(err, "fallback"))
}

func TestDashboardCounts(t *testing.T) {
	f := newFixture(t)
	f.fake.Configure(func(st *apitest.State) {
		st.Programs = []content.Program{{ID: "1", IsActive: true}, {ID: "2"}}
		st.Services = []content.Service{{ID: "s1", IsActive: true}}
	})

	data := f.admin.Dashboard(context.Background(), adminViewer)
	require.True(t, data.Programs.IsReady())
	assert.Equal(t, 2, data.ProgramCounts.All)
	assert.Equal(t, 1, data.ProgramCounts.Inactive)
	assert.Equal(t, 1, data.ServiceCounts.Active)
	assert.True(t, data.Stats.IsReady())
}
