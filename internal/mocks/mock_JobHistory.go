package mocks

import (
	mock "github.com/stretchr/testify/mock"

	models "copyd/internal/models"
)

// MockJobHistory is a mock type for the JobHistory type
type MockJobHistory struct {
	mock.Mock
}

type MockJobHistory_Expecter struct {
	mock *mock.Mock
}

func (_m *MockJobHistory) EXPECT() *MockJobHistory_Expecter {
	return &MockJobHistory_Expecter{mock: &_m.Mock}
}

// GetJobs provides a mock function with given fields: filter
func (_m *MockJobHistory) GetJobs(filter models.JobFilter) ([]*models.Job, error) {
	ret := _m.Called(filter)

	if len(ret) == 0 {
		panic("no return value specified for GetJobs")
	}

	var r0 []*models.Job
	var r1 error
	if rf, ok := ret.Get(0).(func(models.JobFilter) ([]*models.Job, error)); ok {
		return rf(filter)
	}
	if rf, ok := ret.Get(0).(func(models.JobFilter) []*models.Job); ok {
		r0 = rf(filter)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*models.Job)
		}
	}

	if rf, ok := ret.Get(1).(func(models.JobFilter) error); ok {
		r1 = rf(filter)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockJobHistory_GetJobs_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetJobs'
type MockJobHistory_GetJobs_Call struct {
	*mock.Call
}

// GetJobs is a helper method to define mock.On call
//   - filter models.JobFilter
func (_e *MockJobHistory_Expecter) GetJobs(filter interface{}) *MockJobHistory_GetJobs_Call {
	return &MockJobHistory_GetJobs_Call{Call: _e.mock.On("GetJobs", filter)}
}

func (_c *MockJobHistory_GetJobs_Call) Run(run func(filter models.JobFilter)) *MockJobHistory_GetJobs_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(models.JobFilter))
	})
	return _c
}

func (_c *MockJobHistory_GetJobs_Call) Return(_a0 []*models.Job, _a1 error) *MockJobHistory_GetJobs_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobHistory_GetJobs_Call) RunAndReturn(run func(models.JobFilter) ([]*models.Job, error)) *MockJobHistory_GetJobs_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockJobHistory creates a new instance of MockJobHistory. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockJobHistory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockJobHistory {
	mock := &MockJobHistory{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
