package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestTranslation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/translate", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "Water", payload["english"])

		_ = json.NewEncoder(w).Encode(Suggestion{TaiKhamyang: "Nam", Pronunciation: "nam", Example: "Kin nam"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", time.Second)
	got, err := client.SuggestTranslation(context.Background(), "Water", "পানী")
	require.NoError(t, err)
	assert.Equal(t, "Nam", got.TaiKhamyang)
	assert.Equal(t, "nam", got.Pronunciation)
}

func TestGenerateImageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	_, err := client.GenerateImage(context.Background(), "a river in Assam")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestSynthesizeSpeechReturnsBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/speech", r.URL.Path)
		_, _ = w.Write([]byte("RIFFaudio"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	audio, err := client.SynthesizeSpeech(context.Background(), "Nam")
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFFaudio"), audio)
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "", time.Second)
	assert.NoError(t, client.Ping(context.Background()))
}
