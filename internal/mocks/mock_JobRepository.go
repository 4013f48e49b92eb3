package mocks

import (
	mock "github.com/stretchr/testify/mock"

	models "copyd/internal/models"

	time "time"
)

// MockJobRepository is a mock type for the JobRepository type
type MockJobRepository struct {
	mock.Mock
}

type MockJobRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockJobRepository) EXPECT() *MockJobRepository_Expecter {
	return &MockJobRepository_Expecter{mock: &_m.Mock}
}

// CleanupOldJobs provides a mock function with given fields: finishedBefore
func (_m *MockJobRepository) CleanupOldJobs(finishedBefore time.Time) (int, error) {
	ret := _m.Called(finishedBefore)

	if len(ret) == 0 {
		panic("no return value specified for CleanupOldJobs")
	}

	var r0 int
	var r1 error
	if rf, ok := ret.Get(0).(func(time.Time) (int, error)); ok {
		return rf(finishedBefore)
	}
	if rf, ok := ret.Get(0).(func(time.Time) int); ok {
		r0 = rf(finishedBefore)
	} else {
		r0 = ret.Get(0).(int)
	}

	if rf, ok := ret.Get(1).(func(time.Time) error); ok {
		r1 = rf(finishedBefore)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockJobRepository_CleanupOldJobs_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CleanupOldJobs'
type MockJobRepository_CleanupOldJobs_Call struct {
	*mock.Call
}

// CleanupOldJobs is a helper method to define mock.On call
//   - finishedBefore time.Time
func (_e *MockJobRepository_Expecter) CleanupOldJobs(finishedBefore interface{}) *MockJobRepository_CleanupOldJobs_Call {
	return &MockJobRepository_CleanupOldJobs_Call{Call: _e.mock.On("CleanupOldJobs", finishedBefore)}
}

func (_c *MockJobRepository_CleanupOldJobs_Call) Run(run func(finishedBefore time.Time)) *MockJobRepository_CleanupOldJobs_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(time.Time))
	})
	return _c
}

func (_c *MockJobRepository_CleanupOldJobs_Call) Return(_a0 int, _a1 error) *MockJobRepository_CleanupOldJobs_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobRepository_CleanupOldJobs_Call) RunAndReturn(run func(time.Time) (int, error)) *MockJobRepository_CleanupOldJobs_Call {
	_c.Call.Return(run)
	return _c
}

// CreateJob provides a mock function with given fields: job
func (_m *MockJobRepository) CreateJob(job *models.Job) error {
	ret := _m.Called(job)

	if len(ret) == 0 {
		panic("no return value specified for CreateJob")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(*models.Job) error); ok {
		r0 = rf(job)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockJobRepository_CreateJob_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CreateJob'
type MockJobRepository_CreateJob_Call struct {
	*mock.Call
}

// CreateJob is a helper method to define mock.On call
//   - job *models.Job
func (_e *MockJobRepository_Expecter) CreateJob(job interface{}) *MockJobRepository_CreateJob_Call {
	return &MockJobRepository_CreateJob_Call{Call: _e.mock.On("CreateJob", job)}
}

func (_c *MockJobRepository_CreateJob_Call) Run(run func(job *models.Job)) *MockJobRepository_CreateJob_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(*models.Job))
	})
	return _c
}

func (_c *MockJobRepository_CreateJob_Call) Return(_a0 error) *MockJobRepository_CreateJob_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobRepository_CreateJob_Call) RunAndReturn(run func(*models.Job) error) *MockJobRepository_CreateJob_Call {
	_c.Call.Return(run)
	return _c
}

// DeleteJob provides a mock function with given fields: id
func (_m *MockJobRepository) DeleteJob(id string) error {
	ret := _m.Called(id)

	if len(ret) == 0 {
		panic("no return value specified for DeleteJob")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockJobRepository_DeleteJob_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'DeleteJob'
type MockJobRepository_DeleteJob_Call struct {
	*mock.Call
}

// DeleteJob is a helper method to define mock.On call
//   - id string
func (_e *MockJobRepository_Expecter) DeleteJob(id interface{}) *MockJobRepository_DeleteJob_Call {
	return &MockJobRepository_DeleteJob_Call{Call: _e.mock.On("DeleteJob", id)}
}

func (_c *MockJobRepository_DeleteJob_Call) Run(run func(id string)) *MockJobRepository_DeleteJob_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockJobRepository_DeleteJob_Call) Return(_a0 error) *MockJobRepository_DeleteJob_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobRepository_DeleteJob_Call) RunAndReturn(run func(string) error) *MockJobRepository_DeleteJob_Call {
	_c.Call.Return(run)
	return _c
}

// GetJob provides a mock function with given fields: id
func (_m *MockJobRepository) GetJob(id string) (*models.Job, error) {
	ret := _m.Called(id)

	if len(ret) == 0 {
		panic("no return value specified for GetJob")
	}

	var r0 *models.Job
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (*models.Job, error)); ok {
		return rf(id)
	}
	if rf, ok := ret.Get(0).(func(string) *models.Job); ok {
		r0 = rf(id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.Job)
		}
	}

	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockJobRepository_GetJob_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetJob'
type MockJobRepository_GetJob_Call struct {
	*mock.Call
}

// GetJob is a helper method to define mock.On call
//   - id string
func (_e *MockJobRepository_Expecter) GetJob(id interface{}) *MockJobRepository_GetJob_Call {
	return &MockJobRepository_GetJob_Call{Call: _e.mock.On("GetJob", id)}
}

func (_c *MockJobRepository_GetJob_Call) Run(run func(id string)) *MockJobRepository_GetJob_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockJobRepository_GetJob_Call) Return(_a0 *models.Job, _a1 error) *MockJobRepository_GetJob_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobRepository_GetJob_Call) RunAndReturn(run func(string) (*models.Job, error)) *MockJobRepository_GetJob_Call {
	_c.Call.Return(run)
	return _c
}

// GetJobSummary provides a mock function with no fields
func (_m *MockJobRepository) GetJobSummary() (*models.JobSummary, error) {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for GetJobSummary")
	}

	var r0 *models.JobSummary
	var r1 error
	if rf, ok := ret.Get(0).(func() (*models.JobSummary, error)); ok {
		return rf()
	}
	if rf, ok := ret.Get(0).(func() *models.JobSummary); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.JobSummary)
		}
	}

	if rf, ok := ret.Get(1).(func() error); ok {
		r1 = rf()
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockJobRepository_GetJobSummary_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetJobSummary'
type MockJobRepository_GetJobSummary_Call struct {
	*mock.Call
}

// GetJobSummary is a helper method to define mock.On call
func (_e *MockJobRepository_Expecter) GetJobSummary() *MockJobRepository_GetJobSummary_Call {
	return &MockJobRepository_GetJobSummary_Call{Call: _e.mock.On("GetJobSummary")}
}

func (_c *MockJobRepository_GetJobSummary_Call) Run(run func()) *MockJobRepository_GetJobSummary_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockJobRepository_GetJobSummary_Call) Return(_a0 *models.JobSummary, _a1 error) *MockJobRepository_GetJobSummary_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobRepository_GetJobSummary_Call) RunAndReturn(run func() (*models.JobSummary, error)) *MockJobRepository_GetJobSummary_Call {
	_c.Call.Return(run)
	return _c
}

// GetJobs provides a mock function with given fields: filter
func (_m *MockJobRepository) GetJobs(filter models.JobFilter) ([]*models.Job, error) {
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

// MockJobRepository_GetJobs_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetJobs'
type MockJobRepository_GetJobs_Call struct {
	*mock.Call
}

// GetJobs is a helper method to define mock.On call
//   - filter models.JobFilter
func (_e *MockJobRepository_Expecter) GetJobs(filter interface{}) *MockJobRepository_GetJobs_Call {
	return &MockJobRepository_GetJobs_Call{Call: _e.mock.On("GetJobs", filter)}
}

func (_c *MockJobRepository_GetJobs_Call) Run(run func(filter models.JobFilter)) *MockJobRepository_GetJobs_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(models.JobFilter))
	})
	return _c
}

func (_c *MockJobRepository_GetJobs_Call) Return(_a0 []*models.Job, _a1 error) *MockJobRepository_GetJobs_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobRepository_GetJobs_Call) RunAndReturn(run func(models.JobFilter) ([]*models.Job, error)) *MockJobRepository_GetJobs_Call {
	_c.Call.Return(run)
	return _c
}

// UpdateJob provides a mock function with given fields: job
func (_m *MockJobRepository) UpdateJob(job *models.Job) error {
	ret := _m.Called(job)

	if len(ret) == 0 {
		panic("no return value specified for UpdateJob")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(*models.Job) error); ok {
		r0 = rf(job)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockJobRepository_UpdateJob_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'UpdateJob'
type MockJobRepository_UpdateJob_Call struct {
	*mock.Call
}

// UpdateJob is a helper method to define mock.On call
//   - job *models.Job
func (_e *MockJobRepository_Expecter) UpdateJob(job interface{}) *MockJobRepository_UpdateJob_Call {
	return &MockJobRepository_UpdateJob_Call{Call: _e.mock.On("UpdateJob", job)}
}

func (_c *MockJobRepository_UpdateJob_Call) Run(run func(job *models.Job)) *MockJobRepository_UpdateJob_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(*models.Job))
	})
	return _c
}

func (_c *MockJobRepository_UpdateJob_Call) Return(_a0 error) *MockJobRepository_UpdateJob_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobRepository_UpdateJob_Call) RunAndReturn(run func(*models.Job) error) *MockJobRepository_UpdateJob_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockJobRepository creates a new instance of MockJobRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockJobRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockJobRepository {
	mock := &MockJobRepository{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
