package auth

import (
	"crypto/rsa"
	"crypto/sha1" //nolint:gosec // The x5t header is defined over SHA-1.
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/graphops-io/tenantctl/pkg/graph"
	"golang.org/x/crypto/pkcs12"
)

// Static errors for err113 compliance.
var (
	ErrKeyNotRSA  = errors.New("certificate key is not an RSA key")
	ErrNoPEMBlock = errors.New("no PEM block found")
)

// assertionLifetime bounds how long a signed client assertion stays valid.
const assertionLifetime = 10 * time.Minute

// loadCertificate reads certificate material from disk. A PFX bundle wins
// when both forms are present.
func loadCertificate(material *graph.CertificateMaterial) (*x509.Certificate, *rsa.PrivateKey, error) {
	if material.PFXPath != "" {
		return loadPFX(material.PFXPath, material.PFXPassword)
	}

	return loadPEMPair(material.CertPath, material.KeyPath)
}

func loadPFX(path, password string) (*x509.Certificate, *rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", graph.ErrCertificateUnreadable, err)
	}

	key, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", graph.ErrCertificateUnreadable, err)
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, nil, ErrKeyNotRSA
	}

	return cert, rsaKey, nil
}

func loadPEMPair(certPath, keyPath string) (*x509.Certificate, *rsa.PrivateKey, error) {
	certData, err := os.ReadFile(certPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", graph.ErrCertificateUnreadable, err)
	}

	certBlock, _ := pem.Decode(certData)
	if certBlock == nil {
		return nil, nil, fmt.Errorf("%w: %s", graph.ErrCertificateUnreadable, ErrNoPEMBlock)
	}

	cert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", graph.ErrCertificateUnreadable, err)
	}

	keyData, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s", graph.ErrCertificateUnreadable, err)
	}

	key, err := parsePrivateKey(keyData)
	if err != nil {
		return nil, nil, err
	}

	return cert, key, nil
}

func parsePrivateKey(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: %s", graph.ErrCertificateUnreadable, ErrNoPEMBlock)
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", graph.ErrCertificateUnreadable, err)
		}

		return key, nil
	default:
		key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", graph.ErrCertificateUnreadable, err)
		}

		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, ErrKeyNotRSA
		}

		return rsaKey, nil
	}
}

// buildClientAssertion signs a JWT naming the token endpoint as audience.
// The x5t header carries the certificate thumbprint the identity platform
// matches against the registered certificate.
func buildClientAssertion(clientID, tokenEndpoint string, cert *x509.Certificate, key *rsa.PrivateKey) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"aud": tokenEndpoint,
		"iss": clientID,
		"sub": clientID,
		"jti": uuid.NewString(),
		"nbf": now.Unix(),
		"exp": now.Add(assertionLifetime).Unix(),
	})

	thumbprint := sha1.Sum(cert.Raw) //nolint:gosec // The x5t header is defined over SHA-1.
	token.Header["x5t"] = base64.RawURLEncoding.EncodeToString(thumbprint[:])

	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign client assertion: %w", err)
	}

	return signed, nil
}
