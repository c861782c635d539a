package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/basel-ax/ailogo/internal/config"
	"github.com/basel-ax/ailogo/internal/domain"
	"github.com/basel-ax/ailogo/internal/infrastructure/cloudfunction"
	"github.com/basel-ax/ailogo/internal/repository"
	"github.com/basel-ax/ailogo/internal/service"
)

// flakyEndpoint fails the first failures calls, then returns an image.
func flakyEndpoint(t *testing.T, failures int32) (*cloudfunction.Client, *int32) {
	t.Helper()
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= failures {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"image_url":"https://cdn.example/a.png"}`))
	}))
	t.Cleanup(srv.Close)
	return cloudfunction.NewClientWithHTTP(srv.URL, srv.Client(), nil), &calls
}

func TestRun_Success(t *testing.T) {
	client, calls := flakyEndpoint(t, 0)
	log := zap.NewNop()
	d := service.NewDispatcher(client, repository.NewLogImageRepository(log), nil, "12345", log)

	var out bytes.Buffer
	code := run(context.Background(), d, domain.GenerationRequest{Prompt: "A blue lion logo reading 'HEXA' in bold letters", StyleTag: "monogram"}, 0, &out, log)

	assert.Equal(t, 0, code)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))
	assert.Contains(t, out.String(), "[pending] Creating Your Design...")
	assert.Contains(t, out.String(), "[success] Your Design is Ready!")
	assert.Contains(t, out.String(), "image:  https://cdn.example/a.png")
	assert.Contains(t, out.String(), "prompt: A blue lion logo reading 'HEXA' in bold letters")
	assert.Contains(t, out.String(), "style:  Monogram")
}

func TestRun_RetriesUntilSuccess(t *testing.T) {
	client, calls := flakyEndpoint(t, 2)
	log := zap.NewNop()
	d := service.NewDispatcher(client, nil, nil, "12345", log)

	var out bytes.Buffer
	code := run(context.Background(), d, domain.GenerationRequest{Prompt: "fox"}, 2, &out, log)

	assert.Equal(t, 0, code)
	assert.EqualValues(t, 3, atomic.LoadInt32(calls))
	assert.Contains(t, out.String(), "[error] Oops, something went wrong!")
	assert.Contains(t, out.String(), "[success] Your Design is Ready!")
}

func TestRun_GivesUpAfterRetries(t *testing.T) {
	client, calls := flakyEndpoint(t, 5)
	log := zap.NewNop()
	d := service.NewDispatcher(client, nil, nil, "12345", log)

	var out bytes.Buffer
	code := run(context.Background(), d, domain.GenerationRequest{Prompt: "fox"}, 1, &out, log)

	assert.Equal(t, 1, code)
	assert.EqualValues(t, 2, atomic.LoadInt32(calls))
	assert.Equal(t, domain.StatusError, d.Status())
	assert.NotContains(t, out.String(), "Your Design\n")
}

func TestRun_EmptyPrompt(t *testing.T) {
	client, calls := flakyEndpoint(t, 0)
	d := service.NewDispatcher(client, nil, nil, "12345", nil)

	var out bytes.Buffer
	code := run(context.Background(), d, domain.GenerationRequest{}, 0, &out, zap.NewNop())

	assert.Equal(t, 2, code)
	assert.Zero(t, atomic.LoadInt32(calls))
	assert.Empty(t, out.String())
}

func TestNewSink_Log(t *testing.T) {
	cfg := &config.Config{Sink: config.SinkLog}
	sink, closeSink, err := newSink(context.Background(), cfg, zap.NewNop())
	assert.NoError(t, err)
	assert.IsType(t, &repository.LogImageRepository{}, sink)
	closeSink()
}

func TestNewSink_Unknown(t *testing.T) {
	_, _, err := newSink(context.Background(), &config.Config{Sink: "s3"}, zap.NewNop())
	assert.Error(t, err)
}
