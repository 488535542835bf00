package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestKeyPair generates a self-signed certificate and writes both
// halves as PEM files, returning their paths and the generated key.
func writeTestKeyPair(t *testing.T, keyBlockType string) (string, string, *rsa.PrivateKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "tenantctl-test"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	certDER, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	require.NoError(t, err)

	var keyDER []byte

	switch keyBlockType {
	case "RSA PRIVATE KEY":
		keyDER = x509.MarshalPKCS1PrivateKey(key)
	default:
		keyDER, err = x509.MarshalPKCS8PrivateKey(key)
		require.NoError(t, err)
	}

	dir := t.TempDir()
	certPath := filepath.Join(dir, "client.crt")
	keyPath := filepath.Join(dir, "client.key")

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: certDER})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: keyBlockType, Bytes: keyDER})

	require.NoError(t, os.WriteFile(certPath, certPEM, 0o600))
	require.NoError(t, os.WriteFile(keyPath, keyPEM, 0o600))

	return certPath, keyPath, key
}

func TestLoadPEMPair(t *testing.T) {
	t.Parallel()

	certPath, keyPath, key := writeTestKeyPair(t, "PRIVATE KEY")

	cert, gotKey, err := loadPEMPair(certPath, keyPath)
	require.NoError(t, err)

	assert.Equal(t, "tenantctl-test", cert.Subject.CommonName)
	assert.True(t, key.Equal(gotKey))
}

func TestLoadPEMPair_PKCS1Key(t *testing.T) {
	t.Parallel()

	certPath, keyPath, key := writeTestKeyPair(t, "RSA PRIVATE KEY")

	_, gotKey, err := loadPEMPair(certPath, keyPath)
	require.NoError(t, err)

	assert.True(t, key.Equal(gotKey))
}

func TestLoadPEMPair_MissingFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := loadPEMPair(filepath.Join(dir, "absent.crt"), filepath.Join(dir, "absent.key"))
	require.ErrorIs(t, err, graph.ErrCertificateUnreadable)
}

func TestLoadPEMPair_NotPEM(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	certPath := filepath.Join(dir, "garbage.crt")
	require.NoError(t, os.WriteFile(certPath, []byte("not a certificate"), 0o600))

	_, _, err := loadPEMPair(certPath, certPath)
	require.ErrorIs(t, err, graph.ErrCertificateUnreadable)
}

func TestLoadCertificate_PFXPathWins(t *testing.T) {
	t.Parallel()

	// An unreadable PFX path must fail rather than fall through to the
	// PEM pair.
	certPath, keyPath, _ := writeTestKeyPair(t, "PRIVATE KEY")

	_, _, err := loadCertificate(&graph.CertificateMaterial{
		ClientID: "app-id",
		PFXPath:  filepath.Join(t.TempDir(), "absent.pfx"),
		CertPath: certPath,
		KeyPath:  keyPath,
	})
	require.ErrorIs(t, err, graph.ErrCertificateUnreadable)
}

func TestBuildClientAssertion(t *testing.T) {
	t.Parallel()

	certPath, keyPath, key := writeTestKeyPair(t, "PRIVATE KEY")

	cert, gotKey, err := loadPEMPair(certPath, keyPath)
	require.NoError(t, err)

	tokenEndpoint := "https://login.example.com/tenant-a/oauth2/v2.0/token"

	assertion, err := buildClientAssertion("app-id", tokenEndpoint, cert, gotKey)
	require.NoError(t, err)

	parsed, err := jwt.Parse(assertion, func(token *jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, jwt.WithValidMethods([]string{"RS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "app-id", claims["iss"])
	assert.Equal(t, "app-id", claims["sub"])
	assert.Equal(t, tokenEndpoint, claims["aud"])
	assert.NotEmpty(t, claims["jti"])

	thumbprint, ok := parsed.Header["x5t"].(string)
	require.True(t, ok)
	assert.NotEmpty(t, thumbprint)
}
