package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"os"

	"github.com/pkg/errors"
)

// Create creates a new tls.Config from the given cert, key, and CA files.
// Empty paths fall back to the host defaults.
func Create(
	SSLCA, SSLCert, SSLKey string,
	InsecureSkipVerify bool,
) (*tls.Config, error) {
	t := &tls.Config{
		InsecureSkipVerify: InsecureSkipVerify,
	}
	if SSLCert != "" && SSLKey != "" {
		cert, err := tls.LoadX509KeyPair(SSLCert, SSLKey)
		if err != nil {
			return nil, errors.Wrap(err, "could not load TLS client key/certificate")
		}
		t.Certificates = []tls.Certificate{cert}
	} else if SSLCert != "" {
		return nil, errors.New("must provide both key and cert files: only cert file provided")
	} else if SSLKey != "" {
		return nil, errors.New("must provide both key and cert files: only key file provided")
	}

	if SSLCA != "" {
		caCert, err := os.ReadFile(SSLCA)
		if err != nil {
			return nil, errors.Wrap(err, "could not load TLS CA")
		}
		caCertPool := x509.NewCertPool()
		caCertPool.AppendCertsFromPEM(caCert)
		t.RootCAs = caCertPool
	}
	return t, nil
}
