package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"adventure-server/internal/game"
	"adventure-server/internal/story"
)

// MockStoryService is a mock type for the StoryService type
type MockStoryService struct {
	mock.Mock
}

// Fetch provides a mock function with given fields: ctx, priorStory, chosenOption
func (_m *MockStoryService) Fetch(ctx context.Context, priorStory string, chosenOption string) (*story.Turn, error) {
	ret := _m.Called(ctx, priorStory, chosenOption)

	var r0 *story.Turn
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *story.Turn); ok {
		r0 = rf(ctx, priorStory, chosenOption)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*story.Turn)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string, string) error); ok {
		r1 = rf(ctx, priorStory, chosenOption)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockStoryService creates a new instance of MockStoryService.
func NewMockStoryService(t interface {
	mock.TestingT
	Helper()
}) *MockStoryService {
	m := &MockStoryService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ game.StoryService = (*MockStoryService)(nil)

// MockImageService is a mock type for the ImageService type
type MockImageService struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, prompt
func (_m *MockImageService) Generate(ctx context.Context, prompt string) ([]byte, error) {
	ret := _m.Called(ctx, prompt)

	var r0 []byte
	if rf, ok := ret.Get(0).(func(context.Context, string) []byte); ok {
		r0 = rf(ctx, prompt)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]byte)
		}
	}

	var r1 error
	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, prompt)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockImageService creates a new instance of MockImageService.
func NewMockImageService(t interface {
	mock.TestingT
	Helper()
}) *MockImageService {
	m := &MockImageService{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ game.ImageService = (*MockImageService)(nil)
