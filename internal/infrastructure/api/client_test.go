package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api/apitest"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
)

func newClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()
	return api.NewClient(api.Config{BaseURL: baseURL, Timeout: 2 * time.Second}, logging.NewDiscardLogger(), performance.NewTracker(nil))
}

func TestProgramRoundTrip(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	client := newClient(t, fake.BaseURL())
	ctx := context.Background()

	_, err := client.CreateProgram(ctx, api.Write{Token: apitest.AdminToken, IdempotencyKey: "01HZXK"}, api.ProgramInput{
		Title: "Evening School", Description: "Literacy classes", Icon: "Education", IsActive: true,
	})
	require.NoError(t, err)

	programs, err := client.ListAdminPrograms(ctx, apitest.AdminToken)
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "Evening School", programs[0].Title)
	assert.Equal(t, "Education", programs[0].Icon)
	assert.True(t, programs[0].IsActive)
	assert.NotEmpty(t, programs[0].ID)

	var create apitest.Recorded
	for _, r := range fake.Requests() {
		if r.Method == http.MethodPost && r.Path == "/api/programs/admin" {
			create = r
		}
	}
	assert.Equal(t, "01HZXK", create.Header.Get("Idempotency-Key"))
	assert.Equal(t, "Bearer "+apitest.AdminToken, create.Header.Get("Authorization"))
}

func TestServicesListIsNormalised(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	fake.Configure(func(st *apitest.State) {
		st.Services = []content.Service{{ID: "s1", Name: "Meals", Category: "Nutrition", IsActive: true}}
	})
	client := newClient(t, fake.BaseURL())

	services, err := client.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, content.ID("s1"), services[0].ID)
}

func TestGETsSendNoCache(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	client := newClient(t, fake.BaseURL())

	_, err := client.ListStats(context.Background())
	require.NoError(t, err)

	reqs := fake.Requests()
	require.NotEmpty(t, reqs)
	assert.Equal(t, "no-cache", reqs[len(reqs)-1].Header.Get("Cache-Control"))
}

func TestMissingPayloadIsMalformed(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	fake.SetMalformed(true)
	client := newClient(t, fake.BaseURL())

	_, err := client.ListServices(context.Background())
	require.Error(t, err)
	assert.Equal(t, api.KindMalformed, api.KindOf(err))
	assert.False(t, api.IsRetryable(err))
}

func TestRejectionCarriesServerMessage(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	client := newClient(t, fake.BaseURL())

	_, err := client.Login(context.Background(), api.Write{}, api.Credentials{Email: "amina@example.org", Password: "wrong"})
	require.Error(t, err)

	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, api.KindRejected, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Invalid email or password", api.UserMessage(err, "fallback"))
	assert.True(t, errors.Is(err, &api.Error{Kind: api.KindRejected}))
}

func TestStructuredFailureOn200IsRejected(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	client := newClient(t, fake.BaseURL())

	_, err := client.ResetPassword(context.Background(), api.Write{}, api.PasswordReset{Email: "nobody@example.org", NewPassword: "longenough"})
	require.Error(t, err)
	assert.Equal(t, api.KindRejected, api.KindOf(err))
	assert.Equal(t, "No account found with that email", api.UserMessage(err, "fallback"))
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	client := newClient(t, base)
	_, err := client.ListPrograms(context.Background())
	require.Error(t, err)
	assert.Equal(t, api.KindNetwork, api.KindOf(err))
	assert.True(t, api.IsRetryable(err))
	assert.Contains(t, api.UserMessage(err, "fallback"), "couldn't reach the server")
}

func TestCallerCancellation(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	client := newClient(t, srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.ListPrograms(ctx)
	require.Error(t, err)
	assert.True(t, api.IsCanceled(err))
}

func TestLoginReturnsSession(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	client := newClient(t, fake.BaseURL())

	result, err := client.Login(context.Background(), api.Write{}, api.Credentials{Email: "amina@example.org", Password: "correct-horse"})
	require.NoError(t, err)

	sess, ok := result.Session()
	require.True(t, ok)
	assert.Equal(t, apitest.AdminToken, sess.Token)
	assert.Equal(t, "Amina Yusuf", sess.User.Name)
}

func TestValidateTokenVerdicts(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	client := newClient(t, fake.BaseURL())
	ctx := context.Background()

	verdict, err := client.ValidateToken(ctx, apitest.AdminToken)
	require.NoError(t, err)
	assert.Equal(t, api.VerdictAuthenticated, verdict)

	verdict, _ = client.ValidateToken(ctx, "expired")
	assert.Equal(t, api.VerdictRejected, verdict)

	fake.SetValidateStatus(http.StatusForbidden)
	verdict, _ = client.ValidateToken(ctx, apitest.AdminToken)
	assert.Equal(t, api.VerdictRejected, verdict)

	fake.SetValidateStatus(http.StatusBadGateway)
	verdict, _ = client.ValidateToken(ctx, apitest.AdminToken)
	assert.Equal(t, api.VerdictUnknown, verdict)
}

func TestValidateTokenMalformedBodyIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("<html>proxy login</html>"))
	}))
	defer srv.Close()

	verdict, err := newClient(t, srv.URL).ValidateToken(context.Background(), "t")
	require.Error(t, err)
	assert.Equal(t, api.VerdictUnknown, verdict)
}

func TestUploadImageSendsMultipart(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	client := newClient(t, fake.BaseURL())
	ctx := context.Background()

	_, err := client.UploadImage(ctx, api.Write{Token: apitest.AdminToken}, api.ImageUpload{
		File:        api.FilePart{Filename: "garden.png", ContentType: "image/png", Data: []byte("png-bytes")},
		Description: "Garden day",
		AltText:     "garden",
		Category:    "activities",
	})
	require.NoError(t, err)

	images, err := client.ListImages(ctx)
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "activities", images[0].Category)
	assert.Equal(t, "garden", images[0].AltText)
	assert.Equal(t, "garden.png", images[0].OriginalName)
}

func TestUpdateStatsBody(t *testing.T) {
	fake := apitest.New()
	defer fake.Close()
	client := newClient(t, fake.BaseURL())

	_, err := client.UpdateStats(context.Background(), api.Write{Token: apitest.AdminToken}, []content.Stat{
		{Key: content.StatChildrenHelped, Value: "530", Label: "Children Helped"},
	})
	require.NoError(t, err)

	var sent []content.Stat
	for _, r := range fake.Requests() {
		if r.Method == http.MethodPut && r.Path == "/api/stats" {
			require.NoError(t, json.Unmarshal(r.Body, &sent))
		}
	}
	require.Len(t, sent, 1)
	assert.Equal(t, "530", sent[0].Value)
}
