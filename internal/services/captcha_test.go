package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptchaVerifyDisabledWithoutKey(t *testing.T) {
	t.Parallel()

	s := NewCaptchaService("")

	ok, err := s.Verify("anything")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCaptchaVerifyEmptyToken(t *testing.T) {
	t.Parallel()

	s := NewCaptchaService("secret")

	ok, err := s.Verify("")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCaptchaVerify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    string
		want    bool
		wantErr bool
	}{
		{"valid token", http.StatusOK, `{"success":true,"score":0.9}`, true, false},
		{"rejected token", http.StatusOK, `{"success":false,"error-codes":["invalid-input-response"]}`, false, false},
		{"upstream error", http.StatusInternalServerError, ``, false, true},
		{"malformed response", http.StatusOK, `{not json`, false, true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.NoError(t, r.ParseForm())
				assert.Equal(t, "secret", r.FormValue("secret"))
				assert.Equal(t, "token-1", r.FormValue("response"))
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			s := NewCaptchaService("secret")
			s.verifyURL = srv.URL

			ok, err := s.Verify("token-1")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
		})
	}
}
