package postnl_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parcelwatch/postnl/pkg/postnl"
)

func TestFormattedStatus_Render(t *testing.T) {
	fixture := `{
		"title": "Bezorgd",
		"body": "Delivered on {Date:2024-03-01T14:22:00Z} at {Time:2024-03-01T14:22:00Z}",
		"short": "Delivered {Date:2024-03-01T14:22:00Z}"
	}`

	var f postnl.FormattedStatus
	require.NoError(t, json.Unmarshal([]byte(fixture), &f))

	assert.Equal(t, "Bezorgd", f.Title)
	assert.Equal(t, "Delivered 2024-03-01", f.Short())
	assert.Equal(t, "Delivered on 2024-03-01 at 14:22", f.Body())
}

func TestFormattedStatus_NoPlaceholders(t *testing.T) {
	fixture := `{"title": "Onderweg", "body": "Your package is on its way", "short": "On its way"}`

	var f postnl.FormattedStatus
	require.NoError(t, json.Unmarshal([]byte(fixture), &f))

	assert.Equal(t, "On its way", f.Short())
	assert.Equal(t, "Your package is on its way", f.Body())
}

func TestFormattedStatus_CaseInsensitiveKinds(t *testing.T) {
	fixture := `{
		"title": "",
		"body": "At {TIME:2024-03-01T09:30:00Z}",
		"short": "{datetime:2024-03-01T09:30:00Z}"
	}`

	var f postnl.FormattedStatus
	require.NoError(t, json.Unmarshal([]byte(fixture), &f))

	assert.Equal(t, "At 09:30", f.Body())
	assert.Equal(t, "2024-03-01T09:30:00Z", f.Short())
}

func TestFormattedStatus_InvalidTimestamp(t *testing.T) {
	fixture := `{"title": "", "body": "At {Time:yesterday}", "short": ""}`

	var f postnl.FormattedStatus
	err := json.Unmarshal([]byte(fixture), &f)
	assert.Error(t, err)
}

func TestFormattedStatus_UnknownKind(t *testing.T) {
	fixture := `{"title": "", "body": "At {Moon:2024-03-01T09:30:00Z}", "short": ""}`

	var f postnl.FormattedStatus
	err := json.Unmarshal([]byte(fixture), &f)
	assert.Error(t, err)
}
