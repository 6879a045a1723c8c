package eligibility

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCheckEligibility_Eligible(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/eligibility/check/MBR-001/PAY-001", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"eligible": true, "status": "ACTIVE"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, zap.NewNop())
	assert.True(t, client.CheckEligibility(context.Background(), "MBR-001", "PAY-001"))
}

func TestCheckEligibility_Denied(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"eligible": false, "status": "TERMINATED"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, nil, zap.NewNop())
	assert.False(t, client.CheckEligibility(context.Background(), "MBR-001", "PAY-001"))
}

func TestCheckEligibility_FailClosed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{not json`))
			},
		},
		{
			name: "timeout",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(`{"eligible": true}`))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			client := NewClient(srv.URL, 50*time.Millisecond, nil, zap.NewNop())
			assert.False(t, client.CheckEligibility(context.Background(), "MBR-001", "PAY-001"))
		})
	}
}

func TestCheckEligibility_ServiceDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, time.Second, nil, zap.NewNop())
	assert.False(t, client.CheckEligibility(context.Background(), "MBR-001", "PAY-001"))
}
