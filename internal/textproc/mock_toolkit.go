package textproc

import (
	"github.com/stretchr/testify/mock"
)

// MockToolkit is a mock implementation of Toolkit using testify/mock.
type MockToolkit struct {
	mock.Mock
}

func (m *MockToolkit) Words(text, engine string) ([]string, error) {
	args := m.Called(text, engine)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockToolkit) CountTokens(text string) (int, error) {
	args := m.Called(text)
	return args.Int(0), args.Error(1)
}

func (m *MockToolkit) Sentences(text string) ([]string, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockToolkit) Normalize(text string) (string, error) {
	args := m.Called(text)
	return args.String(0), args.Error(1)
}

func (m *MockToolkit) Correct(text string) (string, error) {
	args := m.Called(text)
	return args.String(0), args.Error(1)
}

func (m *MockToolkit) FilterStopwords(tokens []string) ([]string, []string) {
	args := m.Called(tokens)
	return args.Get(0).([]string), args.Get(1).([]string)
}

func (m *MockToolkit) Encoding() string {
	args := m.Called()
	return args.String(0)
}
