package mocks

import (
	interfaces "copyd/internal/interfaces"

	mock "github.com/stretchr/testify/mock"
)

// MockDiskMonitor is a mock type for the DiskMonitor type
type MockDiskMonitor struct {
	mock.Mock
}

type MockDiskMonitor_Expecter struct {
	mock *mock.Mock
}

func (_m *MockDiskMonitor) EXPECT() *MockDiskMonitor_Expecter {
	return &MockDiskMonitor_Expecter{mock: &_m.Mock}
}

// DiskStatus provides a mock function with given fields: path
func (_m *MockDiskMonitor) DiskStatus(path string) (interfaces.DiskStatus, error) {
	ret := _m.Called(path)

	if len(ret) == 0 {
		panic("no return value specified for DiskStatus")
	}

	var r0 interfaces.DiskStatus
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (interfaces.DiskStatus, error)); ok {
		return rf(path)
	}
	if rf, ok := ret.Get(0).(func(string) interfaces.DiskStatus); ok {
		r0 = rf(path)
	} else {
		r0 = ret.Get(0).(interfaces.DiskStatus)
	}

	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(path)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockDiskMonitor_DiskStatus_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'DiskStatus'
type MockDiskMonitor_DiskStatus_Call struct {
	*mock.Call
}

// DiskStatus is a helper method to define mock.On call
//   - path string
func (_e *MockDiskMonitor_Expecter) DiskStatus(path interface{}) *MockDiskMonitor_DiskStatus_Call {
	return &MockDiskMonitor_DiskStatus_Call{Call: _e.mock.On("DiskStatus", path)}
}

func (_c *MockDiskMonitor_DiskStatus_Call) Run(run func(path string)) *MockDiskMonitor_DiskStatus_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockDiskMonitor_DiskStatus_Call) Return(_a0 interfaces.DiskStatus, _a1 error) *MockDiskMonitor_DiskStatus_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockDiskMonitor_DiskStatus_Call) RunAndReturn(run func(string) (interfaces.DiskStatus, error)) *MockDiskMonitor_DiskStatus_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockDiskMonitor creates a new instance of MockDiskMonitor. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockDiskMonitor(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDiskMonitor {
	mock := &MockDiskMonitor{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
