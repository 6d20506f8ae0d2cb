package forms

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/media"
)

func TestRegisterDraftMessages(t *testing.T) {
	d := &RegisterDraft{Name: "   ", Email: "not-an-email", Password: "short", ConfirmPassword: "different"}
	errs := Check(d)
	require.NotNil(t, errs)
	assert.Equal(t, "Name is required", errs.Get("name"))
	assert.Equal(t, "Please enter a valid email", errs.Get("email"))
	assert.Equal(t, "Password must be at least 8 characters", errs.Get("password"))
	assert.Equal(t, "Passwords do not match", errs.Get("confirmPassword"))
}

func TestCheckTrimsButKeepsPasswords(t *testing.T) {
	d := &RegisterDraft{Name: "  Amina ", Email: " amina@example.org ", Password: " secret123 ", ConfirmPassword: " secret123 "}
	assert.Nil(t, Check(d))
	assert.Equal(t, "Amina", d.Name)
	assert.Equal(t, "amina@example.org", d.Email)
	assert.Equal(t, " secret123 ", d.Password)
}

func TestProgramDraftRequiresKnownIcon(t *testing.T) {
	d := &ProgramDraft{Title: "School", Description: "Classes", Icon: "Rocket"}
	errs := Check(d)
	assert.Equal(t, "Please choose an icon from the list", errs.Get("icon"))

	d.Icon = "Education"
	assert.Nil(t, Check(d))
}

func TestServiceDraftCategory(t *testing.T) {
	d := &ServiceDraft{Name: "Meals", Description: "Hot meals", Category: "Cooking"}
	assert.True(t, Check(d).Has("category"))
	d.Category = "Nutrition"
	assert.Nil(t, Check(d))
}

func TestStatsDraft(t *testing.T) {
	d := StatsDraftFrom([]content.Stat{{Key: content.StatChildrenHelped, Value: "530"}})
	assert.Equal(t, "530", d.ChildrenHelped)

	errs := Check(&d)
	assert.Equal(t, "Please fill in all fields", errs.Get("volunteers"))

	d.Volunteers, d.ShelterHomes, d.YearsService = "45", "-3", "12+"
	errs = Check(&d)
	assert.Equal(t, "Please enter a whole number", errs.Get("shelter_homes"))
	assert.False(t, errs.Has("years_service"))

	d.ShelterHomes = "7"
	require.Nil(t, Check(&d))
	stats := d.Stats()
	require.Len(t, stats, 4)
	assert.Equal(t, content.StatChildrenHelped, stats[0].Key)
	assert.Equal(t, "Years of Service", stats[3].Label)
}

func TestDonationDraft(t *testing.T) {
	d := &DonationDraft{Name: "Sam", Amount: "0"}
	assert.Equal(t, "Please enter a valid amount", Check(d).Get("amount"))
	d.Amount = "1,000"
	assert.Nil(t, Check(d))
	assert.Equal(t, "₹1000", d.DisplayAmount())
}

func TestAdminUserInputOnlySendsChangedImage(t *testing.T) {
	d := AdminUserDraft{Name: "A", Email: "a@example.org"}
	assert.Empty(t, d.Input("/uploads/a.png", "").ProfileImage)
	assert.Empty(t, d.Input("/uploads/a.png", "/uploads/a.png").ProfileImage)
	assert.Equal(t, "/uploads/b.png", d.Input("/uploads/a.png", "/uploads/b.png").ProfileImage)
}

func TestGuardRefusesDuplicates(t *testing.T) {
	g := NewGuard(time.Minute)
	id := NewSubmissionID()

	ticket, err := g.Begin(id)
	require.NoError(t, err)
	assert.Equal(t, id, ticket.ID())

	_, err = g.Begin(id)
	assert.ErrorIs(t, err, ErrDuplicateSubmission, "in flight")

	ticket.Succeed()
	_, err = g.Begin(id)
	assert.ErrorIs(t, err, ErrDuplicateSubmission, "recently accepted")

	assert.Equal(t, 1, g.Sweep(time.Now().Add(2*time.Minute)))
	_, err = g.Begin(id)
	assert.NoError(t, err)
}

func TestGuardSweepKeepsSlowSubmitInFlight(t *testing.T) {
	g := NewGuard(time.Minute)
	id := NewSubmissionID()

	ticket, err := g.Begin(id)
	require.NoError(t, err)

	assert.Zero(t, g.Sweep(time.Now().Add(5*time.Minute)))
	_, err = g.Begin(id)
	assert.ErrorIs(t, err, ErrDuplicateSubmission, "still in flight after the TTL")

	ticket.Succeed()
	assert.Equal(t, 1, g.Len())

	assert.Equal(t, 1, g.Sweep(time.Now().Add(2*time.Hour)))
	assert.Zero(t, g.Len())
}

func TestGuardSweepReclaimsAbandonedSubmit(t *testing.T) {
	g := NewGuard(time.Minute)
	_, err := g.Begin(NewSubmissionID())
	require.NoError(t, err)

	assert.Zero(t, g.Sweep(time.Now().Add(30*time.Minute)))
	assert.Equal(t, 1, g.Sweep(time.Now().Add(abandonedAfter+time.Minute)))
}

func TestGuardFailReleasesID(t *testing.T) {
	g := NewGuard(time.Minute)
	id := NewSubmissionID()

	ticket, err := g.Begin(id)
	require.NoError(t, err)
	ticket.Fail()

	_, err = g.Begin(id)
	assert.NoError(t, err)
}

func TestGuardRejectsForgedID(t *testing.T) {
	g := NewGuard(time.Minute)
	_, err := g.Begin("")
	assert.ErrorIs(t, err, ErrMissingSubmissionID)
	_, err = g.Begin("hello")
	assert.ErrorIs(t, err, ErrMissingSubmissionID)
}

func multipartFile(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="image"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["image"][0]
}

func TestReadUpload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))

	up, err := ReadUpload(multipartFile(t, "kids.png", "image/png", buf.Bytes()), media.GalleryLimits)
	require.NoError(t, err)
	assert.Equal(t, "kids.png", up.Part().Filename)
	assert.Equal(t, "image/png", up.Part().ContentType)

	_, err = ReadUpload(nil, media.GalleryLimits)
	assert.ErrorIs(t, err, media.ErrNoFile)

	_, err = ReadUpload(multipartFile(t, "notes.txt", "text/plain", []byte("hello")), media.GalleryLimits)
	assert.ErrorIs(t, err, media.ErrUnsupportedType)

	big := make([]byte, 2<<20+10)
	copy(big, buf.Bytes())
	_, err = ReadUpload(multipartFile(t, "me.png", "image/png", big), media.ProfileLimits)
	var tooLarge *media.TooLargeError
	assert.ErrorAs(t, err, &tooLarge)
}
