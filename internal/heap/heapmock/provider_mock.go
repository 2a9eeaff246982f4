// Package heapmock is a gomock-based mock of heap.HeapProvider, hand
// authored in the shape mockgen would generate for:
//
//	mockgen -package heapmock -destination provider_mock.go \
//	    github.com/orizon-lang/sbrkheap/internal/heap HeapProvider
package heapmock

import (
	"reflect"

	"go.uber.org/mock/gomock"

	"github.com/orizon-lang/sbrkheap/internal/heap"
)

// MockHeapProvider is a mock of the HeapProvider interface.
type MockHeapProvider struct {
	ctrl     *gomock.Controller
	recorder *MockHeapProviderMockRecorder
}

// MockHeapProviderMockRecorder is the mock recorder for MockHeapProvider.
type MockHeapProviderMockRecorder struct {
	mock *MockHeapProvider
}

// NewMockHeapProvider creates a new mock instance.
func NewMockHeapProvider(ctrl *gomock.Controller) *MockHeapProvider {
	mock := &MockHeapProvider{ctrl: ctrl}
	mock.recorder = &MockHeapProviderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockHeapProvider) EXPECT() *MockHeapProviderMockRecorder {
	return m.recorder
}

// Extend mocks base method.
func (m *MockHeapProvider) Extend(n uintptr) (uintptr, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Extend", n)
	ret0, _ := ret[0].(uintptr)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Extend indicates an expected call of Extend.
func (mr *MockHeapProviderMockRecorder) Extend(n any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Extend", reflect.TypeOf((*MockHeapProvider)(nil).Extend), n)
}

// Lo mocks base method.
func (m *MockHeapProvider) Lo() uintptr {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Lo")
	ret0, _ := ret[0].(uintptr)
	return ret0
}

// Lo indicates an expected call of Lo.
func (mr *MockHeapProviderMockRecorder) Lo() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Lo", reflect.TypeOf((*MockHeapProvider)(nil).Lo))
}

// Hi mocks base method.
func (m *MockHeapProvider) Hi() uintptr {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Hi")
	ret0, _ := ret[0].(uintptr)
	return ret0
}

// Hi indicates an expected call of Hi.
func (mr *MockHeapProviderMockRecorder) Hi() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Hi", reflect.TypeOf((*MockHeapProvider)(nil).Hi))
}

// Bytes mocks base method.
func (m *MockHeapProvider) Bytes() []byte {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Bytes")
	ret0, _ := ret[0].([]byte)
	return ret0
}

// Bytes indicates an expected call of Bytes.
func (mr *MockHeapProviderMockRecorder) Bytes() *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Bytes", reflect.TypeOf((*MockHeapProvider)(nil).Bytes))
}

var _ heap.HeapProvider = (*MockHeapProvider)(nil)
