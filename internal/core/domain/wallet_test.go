package domain_test

import (
	"fmt"
	"testing"

	"github.com/novacoinotc/claudewallet/internal/core/domain"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	password    = "password"
	badPassword = "wrong"
	bundle      = domain.SecretBundle{
		Mnemonic:   []string{"vast", "tell", "marble", "warm", "mixed", "pear", "sibling", "fantasy", "mandate", "interest", "hammer", "puppy"},
		PrivateKey: []byte{0xde, 0xad, 0xbe, 0xef},
		Address:    "TNPeeaaFB7K9cmo4uQpcU32zGK8G1NYqeL",
	}
	encryptedBundle = []byte("opaque-ciphertext")
	plainBundle     = []byte(`{"mnemonic":["vast","tell","marble","warm","mixed","pear","sibling","fantasy","mandate","interest","hammer","puppy"],"privateKey":"3q2+7w==","address":"TNPeeaaFB7K9cmo4uQpcU32zGK8G1NYqeL"}`)
)

// domain.IBundleCypher
type mockBundleCypher struct {
	mock.Mock
}

func (m *mockBundleCypher) Encrypt(bundle, password []byte) ([]byte, error) {
	args := m.Called(bundle, password)
	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Error(1)
}

func (m *mockBundleCypher) Decrypt(encrypted, password []byte) ([]byte, error) {
	args := m.Called(encrypted, password)
	var res []byte
	if a := args.Get(0); a != nil {
		res = a.([]byte)
	}
	return res, args.Error(1)
}

func TestMain(m *testing.M) {
	mockedCypher := &mockBundleCypher{}
	mockedCypher.On("Encrypt", mock.Anything, mock.Anything).Return(encryptedBundle, nil)
	mockedCypher.On("Decrypt", mock.Anything, []byte(password)).Return(copyBytes(plainBundle), nil)
	mockedCypher.On("Decrypt", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("invalid password"))
	domain.BundleCypher = mockedCypher

	m.Run()
}

func TestNewWallet(t *testing.T) {
	w, err := domain.NewWallet("wallet", bundle, "m/44'/195'/0'/0/0", password)
	require.NoError(t, err)
	require.NotNil(t, w)
	require.Equal(t, bundle.Address, w.Address)
	require.Equal(t, encryptedBundle, w.EncryptedBundle)
	require.False(t, w.CreatedAt.IsZero())
}

func TestFailingNewWallet(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		bundle   domain.SecretBundle
		password string
		err      error
	}{
		{"missing_id", "", bundle, password, domain.ErrWalletMissingID},
		{"missing_secret", "wallet", domain.SecretBundle{Address: bundle.Address}, password, domain.ErrWalletMissingSecret},
		{"missing_address", "wallet", domain.SecretBundle{PrivateKey: bundle.PrivateKey}, password, domain.ErrWalletMissingAddress},
		{"missing_password", "wallet", bundle, "", domain.ErrWalletMissingPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := domain.NewWallet(tt.id, tt.bundle, "m/44'/195'/0'/0/0", tt.password)
			require.ErrorIs(t, err, tt.err)
			require.Nil(t, w)
		})
	}
}

func TestUnlock(t *testing.T) {
	w, err := domain.NewWallet("wallet", bundle, "m/44'/195'/0'/0/0", password)
	require.NoError(t, err)

	secret, err := w.Unlock(password)
	require.NoError(t, err)
	require.Equal(t, bundle.Mnemonic, secret.Mnemonic)
	require.Equal(t, bundle.Address, secret.Address)

	secret, err = w.Unlock(badPassword)
	require.ErrorIs(t, err, domain.ErrWalletInvalidPassword)
	require.Nil(t, secret)

	secret, err = w.Unlock("")
	require.ErrorIs(t, err, domain.ErrWalletMissingPassword)
	require.Nil(t, secret)
}

func copyBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
