package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/basel-ax/ailogo/internal/domain"
)

// --- Mocks ---

type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImageRef, error) {
	ret := m.Called(ctx, req)
	ref, _ := ret.Get(0).(*domain.GeneratedImageRef)
	return ref, ret.Error(1)
}

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Save(ctx context.Context, rec *domain.ImageRecord) error {
	return m.Called(ctx, rec).Error(0)
}

var (
	_ domain.ImageGenerator  = (*MockImageGenerator)(nil)
	_ domain.ImageRepository = (*MockImageRepository)(nil)
)

// gatedGenerator blocks every call until the test answers it, so tests control
// the order in which overlapping attempts resolve.
type gatedGenerator struct {
	started chan gatedCall
}

type gatedCall struct {
	req   domain.GenerationRequest
	reply chan gatedReply
}

type gatedReply struct {
	ref *domain.GeneratedImageRef
	err error
}

func newGatedGenerator() *gatedGenerator {
	return &gatedGenerator{started: make(chan gatedCall, 8)}
}

func (g *gatedGenerator) GenerateImage(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImageRef, error) {
	call := gatedCall{req: req, reply: make(chan gatedReply, 1)}
	g.started <- call
	select {
	case r := <-call.reply:
		return r.ref, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (c gatedCall) succeed(url string) {
	c.reply <- gatedReply{ref: &domain.GeneratedImageRef{URL: url}}
}

func (c gatedCall) fail(err error) {
	c.reply <- gatedReply{err: err}
}
