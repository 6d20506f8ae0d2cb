package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testSession = content.Session{
	Token: "api-token",
	User:  content.AdminUser{ID: "1", Name: "Amina Yusuf", Email: "amina@example.org"},
}

func contextWith(cookies []*http.Cookie) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c.Request = req
	return c, w
}

func exercise(t *testing.T, p Provider) {
	t.Helper()

	c, w := contextWith(nil)
	sess, err := p.Load(c)
	require.NoError(t, err)
	assert.Nil(t, sess)

	require.NoError(t, p.Save(c, testSession))
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	c, _ = contextWith(cookies)
	sess, err = p.Load(c)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, testSession, *sess)

	c, w = contextWith(cookies)
	p.Clear(c)
	cleared := w.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.True(t, cleared[0].MaxAge < 0)
}

func TestCookieProvider(t *testing.T) {
	exercise(t, NewCookieProvider("secret", CookieOptions{TTL: time.Hour}))
}

func TestMemoryProvider(t *testing.T) {
	p := NewMemoryProvider(CookieOptions{TTL: time.Hour})
	exercise(t, p)
	assert.Equal(t, 0, p.Len())
}

func TestCookieProviderDropsTamperedCookie(t *testing.T) {
	p := NewCookieProvider("secret", CookieOptions{TTL: time.Hour})
	c, w := contextWith([]*http.Cookie{{Name: sessionCookie, Value: "tampered"}})

	sess, err := p.Load(c)
	require.NoError(t, err)
	assert.Nil(t, sess)
	require.NotEmpty(t, w.Result().Cookies())
	assert.Equal(t, sessionCookie, w.Result().Cookies()[0].Name)
}

func TestFlashIsReadOnce(t *testing.T) {
	opts := CookieOptions{}
	c, w := contextWith(nil)
	SetFlash(c, opts, "Program created successfully!")

	c, w2 := contextWith(w.Result().Cookies())
	assert.Equal(t, "Program created successfully!", PopFlash(c, opts))
	assert.True(t, w2.Result().Cookies()[0].MaxAge < 0)
}
