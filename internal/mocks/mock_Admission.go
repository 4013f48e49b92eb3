package mocks

import (
	interfaces "copyd/internal/interfaces"

	mock "github.com/stretchr/testify/mock"
)

// MockAdmission is a mock type for the Admission type
type MockAdmission struct {
	mock.Mock
}

type MockAdmission_Expecter struct {
	mock *mock.Mock
}

func (_m *MockAdmission) EXPECT() *MockAdmission_Expecter {
	return &MockAdmission_Expecter{mock: &_m.Mock}
}

// CanStartCopy provides a mock function with given fields: source, destination
func (_m *MockAdmission) CanStartCopy(source string, destination string) interfaces.GateDecision {
	ret := _m.Called(source, destination)

	if len(ret) == 0 {
		panic("no return value specified for CanStartCopy")
	}

	var r0 interfaces.GateDecision
	if rf, ok := ret.Get(0).(func(string, string) interfaces.GateDecision); ok {
		r0 = rf(source, destination)
	} else {
		r0 = ret.Get(0).(interfaces.GateDecision)
	}

	return r0
}

// MockAdmission_CanStartCopy_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CanStartCopy'
type MockAdmission_CanStartCopy_Call struct {
	*mock.Call
}

// CanStartCopy is a helper method to define mock.On call
//   - source string
//   - destination string
func (_e *MockAdmission_Expecter) CanStartCopy(source interface{}, destination interface{}) *MockAdmission_CanStartCopy_Call {
	return &MockAdmission_CanStartCopy_Call{Call: _e.mock.On("CanStartCopy", source, destination)}
}

func (_c *MockAdmission_CanStartCopy_Call) Run(run func(source string, destination string)) *MockAdmission_CanStartCopy_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string), args[1].(string))
	})
	return _c
}

func (_c *MockAdmission_CanStartCopy_Call) Return(_a0 interfaces.GateDecision) *MockAdmission_CanStartCopy_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockAdmission_CanStartCopy_Call) RunAndReturn(run func(string, string) interfaces.GateDecision) *MockAdmission_CanStartCopy_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockAdmission creates a new instance of MockAdmission. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockAdmission(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAdmission {
	mock := &MockAdmission{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
