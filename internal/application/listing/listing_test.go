package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

var images = []content.GalleryImage{
	{ID: "1", Category: "children", Size: 100},
	{ID: "2", Category: "events", Size: 200},
	{ID: "3", Category: "children", Size: 300},
	{ID: "4", Category: "general", Size: 400},
}

func ids(imgs []content.GalleryImage) []content.ID {
	out := make([]content.ID, 0, len(imgs))
	for _, i := range imgs {
		out = append(out, i.ID)
	}
	return out
}

func TestFilterAllReturnsFullCollectionInOrder(t *testing.T) {
	assert.Equal(t, ids(images), ids(Filter(images, All, ImageCategory)))
	assert.Equal(t, ids(images), ids(Filter(images, "", ImageCategory)))
}

func TestFilterIsIdempotentAndDoesNotMutate(t *testing.T) {
	before := append([]content.GalleryImage(nil), images...)
	for _, c := range Categories(images, ImageCategory) {
		once := Filter(images, c, ImageCategory)
		twice := Filter(once, c, ImageCategory)
		assert.Equal(t, ids(once), ids(twice), "category %s", c)
	}
	assert.Equal(t, before, images)

	children := Filter(images, "children", ImageCategory)
	assert.Equal(t, []content.ID{"1", "3"}, ids(children))

	children[0].Category = "changed"
	assert.Equal(t, "children", images[0].Category)
}

func TestCategories(t *testing.T) {
	assert.Equal(t, []string{"all", "children", "events", "general"}, Categories(images, ImageCategory))
	assert.Equal(t, []string{"all"}, Categories([]content.GalleryImage{}, ImageCategory))
}

func TestByStatusAndCounts(t *testing.T) {
	programs := []content.Program{
		{ID: "1", IsActive: true}, {ID: "2"}, {ID: "3", IsActive: true},
	}
	assert.Len(t, ByStatus(programs, StatusActive, ProgramActive), 2)
	assert.Len(t, ByStatus(programs, StatusInactive, ProgramActive), 1)
	assert.Len(t, ByStatus(programs, All, ProgramActive), 3)
	assert.Equal(t, Counts{All: 3, Active: 2, Inactive: 1}, CountStatus(programs, ProgramActive))
}

func TestFirstAndTotalSize(t *testing.T) {
	assert.Equal(t, []content.ID{"1", "2", "3"}, ids(First(images, 3)))
	assert.Len(t, First(images, 10), 4)
	assert.Empty(t, First(images, -1))
	assert.Empty(t, First([]content.GalleryImage(nil), 2))
	assert.Equal(t, int64(1000), TotalSize(images))
}

func TestConfirmationsAreSingleUseAndBound(t *testing.T) {
	c := NewConfirmations(time.Minute)

	token, err := c.Issue("session-1", "delete-program", "42")
	require.NoError(t, err)
	require.NoError(t, c.Consume(token, "session-1", "delete-program", "42"))
	assert.ErrorIs(t, c.Consume(token, "session-1", "delete-program", "42"), ErrConfirmation)

	token, err = c.Issue("session-1", "delete-program", "42")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Consume(token, "session-1", "delete-program", "43"), ErrConfirmation)
	assert.ErrorIs(t, c.Consume(token, "session-1", "delete-program", "42"), ErrConfirmation, "mismatch burns the token")

	token, err = c.Issue("session-1", "delete-image", "7")
	require.NoError(t, err)
	assert.ErrorIs(t, c.Consume(token, "session-2", "delete-image", "7"), ErrConfirmation)

	assert.ErrorIs(t, c.Consume("", "s", "a", "i"), ErrConfirmation)
}

func TestConfirmationsExpire(t *testing.T) {
	c := NewConfirmations(time.Minute)
	token, err := c.Issue("s", "delete-user", "1")
	require.NoError(t, err)

	assert.Equal(t, 1, c.Sweep(time.Now().Add(2*time.Minute)))
	assert.ErrorIs(t, c.Consume(token, "s", "delete-user", "1"), ErrConfirmation)
}
