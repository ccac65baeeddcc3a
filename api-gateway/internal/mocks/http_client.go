package mocks

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/mock"
)

type HTTPClient struct {
	mock.Mock
}

func NewHTTPClient(t *testing.T) *HTTPClient {
	m := &HTTPClient{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	ret := m.Called(req)
	resp, _ := ret.Get(0).(*http.Response)
	return resp, ret.Error(1)
}
