package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_FixedPriority(t *testing.T) {
	cases := []struct {
		mask RemoteStatus
		want RemoteStatus
	}{
		{StatusPending | StatusCompleted, StatusPending},
		{StatusProcessing | StatusCompleted | StatusCredited, StatusProcessing},
		{StatusCompleted | StatusAnnulled, StatusCompleted},
		{StatusAnnulled | StatusCredited, StatusAnnulled},
		{StatusCredited | StatusAutoDebited, StatusCredited},
		{StatusAutoDebited | StatusManualInspection, StatusAutoDebited},
		{StatusManualInspection | StatusError, StatusManualInspection},
		{StatusError, StatusError},
	}

	for _, tc := range cases {
		t.Run(tc.mask.String(), func(t *testing.T) {
			got, ok := tc.mask.Resolve()
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}

	_, ok := RemoteStatus(0).Resolve()
	assert.False(t, ok)
}

func TestString(t *testing.T) {
	assert.Equal(t, "PENDING|COMPLETED", (StatusCompleted | StatusPending).String())
	assert.Equal(t, "NONE", RemoteStatus(0).String())
}

func TestParseRemoteStatus(t *testing.T) {
	s, err := ParseRemoteStatus(" manual_inspection ")
	require.NoError(t, err)
	assert.Equal(t, StatusManualInspection, s)

	_, err = ParseRemoteStatus("FROZEN")
	assert.Error(t, err)
}

func TestCredentialSetMap(t *testing.T) {
	c := CredentialSet{Username: "u", Secret: "s", Environment: EnvironmentTest, Flavour: FlavourECommerce}
	assert.True(t, c.IsComplete())
	assert.Equal(t, map[string]string{
		"username":    "u",
		"secret":      "s",
		"environment": "test",
		"flavour":     "ecom",
	}, c.Map())
	assert.False(t, CredentialSet{Username: "u"}.IsComplete())
}
