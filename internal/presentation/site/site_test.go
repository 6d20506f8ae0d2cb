package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedCopyLoads(t *testing.T) {
	site, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Orphan Care", site.Name)
	assert.Equal(t, []int{500, 1000, 2000, 5000}, site.Donate.Presets)
	assert.Equal(t, "₹", site.Donate.Currency)
	assert.Len(t, site.Children.Activities, 8)
	assert.Len(t, site.About.Values, 3)
}

func TestParseRejectsEmptyDocument(t *testing.T) {
	_, err := Parse([]byte("tagline: hi\n"))
	assert.Error(t, err)

	_, err = Parse([]byte(":\t:"))
	assert.Error(t, err)
}
