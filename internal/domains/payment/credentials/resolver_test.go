package credentials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resursbank-gateway/internal/domains/payment/gateway/mock"
	"resursbank-gateway/internal/domains/payment/model"
)

var testKey = strings.Repeat("0f", 32)

func creds(user string) model.CredentialSet {
	return model.CredentialSet{
		Username:    user,
		Secret:      user + "-secret",
		Environment: model.EnvironmentTest,
		Flavour:     model.FlavourMerchantAPI,
	}
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer(testKey)
	require.NoError(t, err)

	blob, err := s.Seal(creds("old"))
	require.NoError(t, err)
	assert.NotContains(t, blob, "old-secret")

	got, err := s.Open(blob)
	require.NoError(t, err)
	assert.Equal(t, creds("old"), got)
}

func TestSealer_RejectsTamperingAndWrongKey(t *testing.T) {
	s, err := NewSealer(testKey)
	require.NoError(t, err)
	blob, err := s.Seal(creds("old"))
	require.NoError(t, err)

	other, err := NewSealer(strings.Repeat("a1", 32))
	require.NoError(t, err)
	_, err = other.Open(blob)
	assert.ErrorIs(t, err, model.ErrSnapshotUnavailable)

	_, err = s.Open("not-base64!")
	assert.ErrorIs(t, err, model.ErrSnapshotUnavailable)

	_, err = s.Open("AAAA")
	assert.ErrorIs(t, err, model.ErrSnapshotUnavailable)
}

func TestSealer_Disabled(t *testing.T) {
	s, err := NewSealer("")
	require.NoError(t, err)
	assert.False(t, s.Enabled())

	_, err = s.Seal(creds("x"))
	assert.ErrorIs(t, err, model.ErrSnapshotUnavailable)

	_, err = NewSealer("abcd")
	assert.Error(t, err)
}

func TestDiffers(t *testing.T) {
	assert.False(t, Differs(creds("a"), creds("a")))
	assert.True(t, Differs(creds("a"), creds("b")))

	withStore := creds("a")
	withStore.StoreID = "store-9"
	assert.True(t, Differs(creds("a"), withStore))

	prod := creds("a")
	prod.Environment = model.EnvironmentProduction
	assert.True(t, Differs(creds("a"), prod))
}

func TestResolver_Connect(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)

	gateways := map[string]*mock.Gateway{}
	r := NewResolver(creds("live"), model.CredentialSet{}, mock.Factory(gateways), sealer)

	primary, err := r.Connect("")
	require.NoError(t, err)
	assert.Same(t, gateways["live"], primary)

	again, err := r.Primary()
	require.NoError(t, err)
	assert.Same(t, primary, again)

	sameBlob, err := sealer.Seal(creds("live"))
	require.NoError(t, err)
	gw, err := r.Connect(sameBlob)
	require.NoError(t, err)
	assert.Same(t, primary, gw)

	oldBlob, err := sealer.Seal(creds("rotated"))
	require.NoError(t, err)
	gw, err = r.Connect(oldBlob)
	require.NoError(t, err)
	assert.Same(t, gateways["rotated"], gw)

	gw, err = r.Connect("garbage")
	require.NoError(t, err)
	assert.Same(t, primary, gw)
}

func TestResolver_NotConfigured(t *testing.T) {
	sealer, err := NewSealer(testKey)
	require.NoError(t, err)
	r := NewResolver(model.CredentialSet{Environment: model.EnvironmentProduction}, model.CredentialSet{}, mock.Factory(map[string]*mock.Gateway{}), sealer)

	_, ok := r.Active()
	assert.False(t, ok)
	assert.Empty(t, r.Candidates())

	_, err = r.Connect("")
	assert.ErrorIs(t, err, model.ErrCredentialsNotConfigured)

	var pErr *model.PaymentError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, model.ErrCodeCredentialsNotConfigured, pErr.Code)

	_, err = r.Snapshot()
	assert.ErrorIs(t, err, model.ErrCredentialsNotConfigured)

	// an order snapshot still works when the live credentials are gone
	blob, err := sealer.Seal(creds("historic"))
	require.NoError(t, err)
	gw, err := r.Connect(blob)
	require.NoError(t, err)
	assert.NotNil(t, gw)
}

func TestResolver_Secondary(t *testing.T) {
	legacy := creds("legacy")
	legacy.Flavour = model.FlavourECommerce

	gateways := map[string]*mock.Gateway{}
	r := NewResolver(creds("live"), legacy, mock.Factory(gateways), &Sealer{})

	assert.Len(t, r.Candidates(), 2)

	gw, ok, err := r.SecondaryGateway()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, model.FlavourECommerce, gw.Flavour())
}
