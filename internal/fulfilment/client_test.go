package fulfilment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveyhome.org/respondent-web/internal/upstream"
)

func TestProductCode(t *testing.T) {
	cases := []struct {
		channel string
		spec    Spec
		want    string
	}{
		{"SMS", Spec{CaseType: "HH", Region: "E", Individual: false}, "UAC_SMS_HH_E"},
		{"SMS", Spec{CaseType: "HH", Region: "W", Individual: true}, "UACIT_SMS_HH_W"},
		{"POST", Spec{CaseType: "CE", Region: "N", Individual: true}, "UACIT_POST_CE_N"},
		{"POST", Spec{CaseType: "SPG", Region: "E", Individual: false}, "UAC_POST_SPG_E"},
	}
	for _, tc := range cases {
		got, err := productCode(tc.channel, tc.spec)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := productCode("SMS", Spec{CaseType: "NA", Region: "E"})
	assert.ErrorIs(t, err, ErrNoProduct)
	_, err = productCode("SMS", Spec{CaseType: "HH", Region: "S"})
	assert.ErrorIs(t, err, ErrNoProduct)
}

func TestRequestSMS(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cases/case-1/fulfilments/sms", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, upstream.BasicAuth{}, "http://iac.invalid", upstream.BasicAuth{}, 0, nil)
	err := c.RequestSMS(context.Background(), "case-1", "447012345678", Spec{CaseType: "HH", Region: "E", Individual: true})
	require.NoError(t, err)
	assert.Equal(t, "447012345678", got["telNo"])
	assert.Equal(t, "UACIT_SMS_HH_E", got["fulfilmentCode"])
}

func TestRequestPostRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cases/case-1/fulfilments/post", r.URL.Path)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient("http://ci.invalid", upstream.BasicAuth{}, srv.URL, upstream.BasicAuth{}, 0, nil)
	err := c.RequestPost(context.Background(), "case-1", "Bob", "Bobbington", Spec{CaseType: "HH", Region: "E"})
	assert.True(t, errors.Is(err, upstream.ErrRateLimited))
}
