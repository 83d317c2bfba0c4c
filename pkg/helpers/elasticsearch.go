package helpers

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

const esRequestTimeout = 5 * time.Second

// NewESClient creates an Elasticsearch client with optional basic auth.
// Index and search calls retry twice on gateway errors only.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	return elasticsearch.NewClient(esConfig(addrs, username, password))
}

func esConfig(addrs []string, username, password string) elasticsearch.Config {
	return elasticsearch.Config{
		Addresses:     addrs,
		Username:      username,
		Password:      password,
		MaxRetries:    2,
		RetryOnStatus: []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: esRequestTimeout,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: esRequestTimeout}).DialContext,
		},
	}
}
