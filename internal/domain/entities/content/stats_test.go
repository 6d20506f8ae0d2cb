package content

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatDisplayValue_ChildrenAndVolunteersRoundToFifty(t *testing.T) {
	for _, key := range []StatKey{StatChildrenHelped, StatVolunteers} {
		for v := 0; v <= 1200; v++ {
			got := StatDisplayValue(key, strconv.Itoa(v))
			if v >= 50 {
				assert.Equal(t, strconv.Itoa((v/50)*50)+"+", got, "key=%s v=%d", key, v)
			} else {
				assert.Equal(t, strconv.Itoa(v), got, "key=%s v=%d", key, v)
			}
		}
	}
}

func TestStatDisplayValue_YearsRoundToFive(t *testing.T) {
	for v := 0; v <= 200; v++ {
		got := StatDisplayValue(StatYearsService, strconv.Itoa(v))
		if v >= 5 {
			assert.Equal(t, strconv.Itoa((v/5)*5)+"+", got, "v=%d", v)
		} else {
			assert.Equal(t, strconv.Itoa(v), got, "v=%d", v)
		}
	}
}

func TestStatDisplayValue_ShelterHomesAlwaysExact(t *testing.T) {
	for _, v := range []int{0, 4, 5, 49, 50, 51, 530, 10001} {
		assert.Equal(t, strconv.Itoa(v), StatDisplayValue(StatShelterHomes, strconv.Itoa(v)))
	}
}

func TestStatDisplayValue_EdgeInputs(t *testing.T) {
	assert.Equal(t, "500+", StatDisplayValue(StatChildrenHelped, "530"))
	assert.Equal(t, "500+", StatDisplayValue(StatChildrenHelped, "530+"), "stored plus suffix is ignored")
	assert.Equal(t, "500+", StatDisplayValue(StatChildrenHelped, " 530 "))
	assert.Equal(t, "--", StatDisplayValue(StatVolunteers, ""))
	assert.Equal(t, "Invalid", StatDisplayValue(StatVolunteers, "many"))
	assert.Equal(t, "12", StatDisplayValue(StatKey("unknown"), "12"))
}

func TestStatDisplayValue_ReadsLeadingDigits(t *testing.T) {
	assert.Equal(t, "10+", StatDisplayValue(StatYearsService, "12abc"))
	assert.Equal(t, "100+", StatDisplayValue(StatVolunteers, "120 people"))
	assert.Equal(t, "Invalid", StatDisplayValue(StatVolunteers, "abc12"))

	_, ok := ParseStatValue("12abc")
	assert.False(t, ok, "saved values stay strict")
}

func TestOrderStats_FillsMissingKeysInFixedOrder(t *testing.T) {
	ordered := OrderStats([]Stat{
		{Key: StatYearsService, Value: "12", Label: "whatever"},
		{Key: StatChildrenHelped, Value: "530", Label: "Children Helped"},
	})

	require.Len(t, ordered, 4)
	assert.Equal(t, StatChildrenHelped, ordered[0].Key)
	assert.Equal(t, "530", ordered[0].Value)
	assert.Equal(t, StatVolunteers, ordered[1].Key)
	assert.Empty(t, ordered[1].Value)
	assert.Equal(t, StatShelterHomes, ordered[2].Key)
	assert.Equal(t, StatYearsService, ordered[3].Key)
	assert.Equal(t, "Years of Service", ordered[3].Label)
}

func TestID_DecodesNumbersAndStrings(t *testing.T) {
	var p Program
	require.NoError(t, json.Unmarshal([]byte(`{"id": 42, "title": "School"}`), &p))
	assert.Equal(t, ID("42"), p.ID)

	var s Service
	require.NoError(t, json.Unmarshal([]byte(`{"id": "64f1c0ffee", "name": "Meals"}`), &s))
	assert.Equal(t, ID("64f1c0ffee"), s.ID)

	out, err := json.Marshal(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "42", string(out))

	out, err = json.Marshal(s.ID)
	require.NoError(t, err)
	assert.Equal(t, `"64f1c0ffee"`, string(out))
}

func TestResolveAssetURL(t *testing.T) {
	origin := APIOrigin("http://localhost:5000/api")
	assert.Equal(t, "http://localhost:5000", origin)
	assert.Equal(t, "http://localhost:5000/uploads/a.jpg", ResolveAssetURL(origin, "/uploads/a.jpg"))
	assert.Equal(t, "http://localhost:5000/uploads/a.jpg", ResolveAssetURL(origin, "uploads/a.jpg"))
	assert.Equal(t, "https://cdn.example.org/a.jpg", ResolveAssetURL(origin, "https://cdn.example.org/a.jpg"))
	assert.Empty(t, ResolveAssetURL(origin, ""))
}

func TestIconGlyph_FallsBackToDefault(t *testing.T) {
	assert.Equal(t, "🎓", IconGlyph("Education"))
	assert.Equal(t, "🌟", IconGlyph("Rocket"))
}
