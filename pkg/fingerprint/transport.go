// Package fingerprint provides an http.RoundTripper that speaks to upstream with a browser TLS fingerprint.
package fingerprint

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
)

var knownProfiles = map[string]profiles.ClientProfile{
	"chrome_120":  profiles.Chrome_120,
	"firefox_117": profiles.Firefox_117,
	"safari_16_0": profiles.Safari_16_0,
}

func ProfileByName(name string) (profiles.ClientProfile, error) {
	profile, ok := knownProfiles[strings.ToLower(name)]
	if !ok {
		return profiles.ClientProfile{}, fmt.Errorf("unknown client profile %q (known: %s)", name, strings.Join(ProfileNames(), ", "))
	}
	return profile, nil
}

func ProfileNames() []string {
	names := make([]string, 0, len(knownProfiles))
	for name := range knownProfiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RoundTripper adapts a tls-client HttpClient to net/http.
type RoundTripper struct {
	client tls_client.HttpClient
}

func NewRoundTripper(profileName string, timeoutSeconds int) (*RoundTripper, error) {
	profile, err := ProfileByName(profileName)
	if err != nil {
		return nil, err
	}

	client, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(),
		tls_client.WithClientProfile(profile),
		tls_client.WithTimeoutSeconds(timeoutSeconds),
		tls_client.WithNotFollowRedirects(),
	)
	if err != nil {
		return nil, fmt.Errorf("create tls client: %w", err)
	}

	return &RoundTripper{client: client}, nil
}

func (t *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	freq, err := fhttp.NewRequestWithContext(req.Context(), req.Method, req.URL.String(), req.Body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	freq.Header = fhttp.Header(req.Header.Clone())
	freq.ContentLength = req.ContentLength

	fresp, err := t.client.Do(freq)
	if err != nil {
		return nil, err
	}

	return &http.Response{
		Status:        fresp.Status,
		StatusCode:    fresp.StatusCode,
		Proto:         fresp.Proto,
		ProtoMajor:    fresp.ProtoMajor,
		ProtoMinor:    fresp.ProtoMinor,
		Header:        http.Header(fresp.Header),
		Body:          fresp.Body,
		ContentLength: fresp.ContentLength,
		Request:       req,
	}, nil
}
