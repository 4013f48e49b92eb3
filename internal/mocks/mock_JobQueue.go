package mocks

import (
	context "context"

	interfaces "copyd/internal/interfaces"

	mock "github.com/stretchr/testify/mock"

	models "copyd/internal/models"

	protocol "copyd/internal/protocol"
)

// MockJobQueue is a mock type for the JobQueue type
type MockJobQueue struct {
	mock.Mock
}

type MockJobQueue_Expecter struct {
	mock *mock.Mock
}

func (_m *MockJobQueue) EXPECT() *MockJobQueue_Expecter {
	return &MockJobQueue_Expecter{mock: &_m.Mock}
}

// Cancel provides a mock function with given fields: id
func (_m *MockJobQueue) Cancel(id string) error {
	ret := _m.Called(id)

	if len(ret) == 0 {
		panic("no return value specified for Cancel")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockJobQueue_Cancel_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Cancel'
type MockJobQueue_Cancel_Call struct {
	*mock.Call
}

// Cancel is a helper method to define mock.On call
//   - id string
func (_e *MockJobQueue_Expecter) Cancel(id interface{}) *MockJobQueue_Cancel_Call {
	return &MockJobQueue_Cancel_Call{Call: _e.mock.On("Cancel", id)}
}

func (_c *MockJobQueue_Cancel_Call) Run(run func(id string)) *MockJobQueue_Cancel_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockJobQueue_Cancel_Call) Return(_a0 error) *MockJobQueue_Cancel_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobQueue_Cancel_Call) RunAndReturn(run func(string) error) *MockJobQueue_Cancel_Call {
	_c.Call.Return(run)
	return _c
}

// Create provides a mock function with given fields: source, destination
func (_m *MockJobQueue) Create(source string, destination string) (*models.Job, error) {
	ret := _m.Called(source, destination)

	if len(ret) == 0 {
		panic("no return value specified for Create")
	}

	var r0 *models.Job
	var r1 error
	if rf, ok := ret.Get(0).(func(string, string) (*models.Job, error)); ok {
		return rf(source, destination)
	}
	if rf, ok := ret.Get(0).(func(string, string) *models.Job); ok {
		r0 = rf(source, destination)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*models.Job)
		}
	}

	if rf, ok := ret.Get(1).(func(string, string) error); ok {
		r1 = rf(source, destination)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockJobQueue_Create_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Create'
type MockJobQueue_Create_Call struct {
	*mock.Call
}

// Create is a helper method to define mock.On call
//   - source string
//   - destination string
func (_e *MockJobQueue_Expecter) Create(source interface{}, destination interface{}) *MockJobQueue_Create_Call {
	return &MockJobQueue_Create_Call{Call: _e.mock.On("Create", source, destination)}
}

func (_c *MockJobQueue_Create_Call) Run(run func(source string, destination string)) *MockJobQueue_Create_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string), args[1].(string))
	})
	return _c
}

func (_c *MockJobQueue_Create_Call) Return(_a0 *models.Job, _a1 error) *MockJobQueue_Create_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobQueue_Create_Call) RunAndReturn(run func(string, string) (*models.Job, error)) *MockJobQueue_Create_Call {
	_c.Call.Return(run)
	return _c
}

// GetJob provides a mock function with given fields: id
func (_m *MockJobQueue) GetJob(id string) (*models.Job, error) {
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

// MockJobQueue_GetJob_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetJob'
type MockJobQueue_GetJob_Call struct {
	*mock.Call
}

// GetJob is a helper method to define mock.On call
//   - id string
func (_e *MockJobQueue_Expecter) GetJob(id interface{}) *MockJobQueue_GetJob_Call {
	return &MockJobQueue_GetJob_Call{Call: _e.mock.On("GetJob", id)}
}

func (_c *MockJobQueue_GetJob_Call) Run(run func(id string)) *MockJobQueue_GetJob_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockJobQueue_GetJob_Call) Return(_a0 *models.Job, _a1 error) *MockJobQueue_GetJob_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobQueue_GetJob_Call) RunAndReturn(run func(string) (*models.Job, error)) *MockJobQueue_GetJob_Call {
	_c.Call.Return(run)
	return _c
}

// GetSummary provides a mock function with no fields
func (_m *MockJobQueue) GetSummary() (*models.JobSummary, error) {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for GetSummary")
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

// MockJobQueue_GetSummary_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetSummary'
type MockJobQueue_GetSummary_Call struct {
	*mock.Call
}

// GetSummary is a helper method to define mock.On call
func (_e *MockJobQueue_Expecter) GetSummary() *MockJobQueue_GetSummary_Call {
	return &MockJobQueue_GetSummary_Call{Call: _e.mock.On("GetSummary")}
}

func (_c *MockJobQueue_GetSummary_Call) Run(run func()) *MockJobQueue_GetSummary_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockJobQueue_GetSummary_Call) Return(_a0 *models.JobSummary, _a1 error) *MockJobQueue_GetSummary_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobQueue_GetSummary_Call) RunAndReturn(run func() (*models.JobSummary, error)) *MockJobQueue_GetSummary_Call {
	_c.Call.Return(run)
	return _c
}

// List provides a mock function with no fields
func (_m *MockJobQueue) List() []protocol.JobSummary {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for List")
	}

	var r0 []protocol.JobSummary
	if rf, ok := ret.Get(0).(func() []protocol.JobSummary); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]protocol.JobSummary)
		}
	}

	return r0
}

// MockJobQueue_List_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'List'
type MockJobQueue_List_Call struct {
	*mock.Call
}

// List is a helper method to define mock.On call
func (_e *MockJobQueue_Expecter) List() *MockJobQueue_List_Call {
	return &MockJobQueue_List_Call{Call: _e.mock.On("List")}
}

func (_c *MockJobQueue_List_Call) Run(run func()) *MockJobQueue_List_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockJobQueue_List_Call) Return(_a0 []protocol.JobSummary) *MockJobQueue_List_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobQueue_List_Call) RunAndReturn(run func() []protocol.JobSummary) *MockJobQueue_List_Call {
	_c.Call.Return(run)
	return _c
}

// Resume provides a mock function with given fields: id
func (_m *MockJobQueue) Resume(id string) error {
	ret := _m.Called(id)

	if len(ret) == 0 {
		panic("no return value specified for Resume")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockJobQueue_Resume_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Resume'
type MockJobQueue_Resume_Call struct {
	*mock.Call
}

// Resume is a helper method to define mock.On call
//   - id string
func (_e *MockJobQueue_Expecter) Resume(id interface{}) *MockJobQueue_Resume_Call {
	return &MockJobQueue_Resume_Call{Call: _e.mock.On("Resume", id)}
}

func (_c *MockJobQueue_Resume_Call) Run(run func(id string)) *MockJobQueue_Resume_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockJobQueue_Resume_Call) Return(_a0 error) *MockJobQueue_Resume_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobQueue_Resume_Call) RunAndReturn(run func(string) error) *MockJobQueue_Resume_Call {
	_c.Call.Return(run)
	return _c
}

// SetJobExecutor provides a mock function with given fields: executor
func (_m *MockJobQueue) SetJobExecutor(executor interfaces.JobExecutor) {
	_m.Called(executor)
}

// MockJobQueue_SetJobExecutor_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SetJobExecutor'
type MockJobQueue_SetJobExecutor_Call struct {
	*mock.Call
}

// SetJobExecutor is a helper method to define mock.On call
//   - executor interfaces.JobExecutor
func (_e *MockJobQueue_Expecter) SetJobExecutor(executor interface{}) *MockJobQueue_SetJobExecutor_Call {
	return &MockJobQueue_SetJobExecutor_Call{Call: _e.mock.On("SetJobExecutor", executor)}
}

func (_c *MockJobQueue_SetJobExecutor_Call) Run(run func(executor interfaces.JobExecutor)) *MockJobQueue_SetJobExecutor_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(interfaces.JobExecutor))
	})
	return _c
}

func (_c *MockJobQueue_SetJobExecutor_Call) Return() *MockJobQueue_SetJobExecutor_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockJobQueue_SetJobExecutor_Call) RunAndReturn(run func(interfaces.JobExecutor)) *MockJobQueue_SetJobExecutor_Call {
	_c.Run(run)
	return _c
}

// Snapshot provides a mock function with given fields: id
func (_m *MockJobQueue) Snapshot(id string) (protocol.JobSummary, error) {
	ret := _m.Called(id)

	if len(ret) == 0 {
		panic("no return value specified for Snapshot")
	}

	var r0 protocol.JobSummary
	var r1 error
	if rf, ok := ret.Get(0).(func(string) (protocol.JobSummary, error)); ok {
		return rf(id)
	}
	if rf, ok := ret.Get(0).(func(string) protocol.JobSummary); ok {
		r0 = rf(id)
	} else {
		r0 = ret.Get(0).(protocol.JobSummary)
	}

	if rf, ok := ret.Get(1).(func(string) error); ok {
		r1 = rf(id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockJobQueue_Snapshot_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Snapshot'
type MockJobQueue_Snapshot_Call struct {
	*mock.Call
}

// Snapshot is a helper method to define mock.On call
//   - id string
func (_e *MockJobQueue_Expecter) Snapshot(id interface{}) *MockJobQueue_Snapshot_Call {
	return &MockJobQueue_Snapshot_Call{Call: _e.mock.On("Snapshot", id)}
}

func (_c *MockJobQueue_Snapshot_Call) Run(run func(id string)) *MockJobQueue_Snapshot_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockJobQueue_Snapshot_Call) Return(_a0 protocol.JobSummary, _a1 error) *MockJobQueue_Snapshot_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockJobQueue_Snapshot_Call) RunAndReturn(run func(string) (protocol.JobSummary, error)) *MockJobQueue_Snapshot_Call {
	_c.Call.Return(run)
	return _c
}

// Start provides a mock function with given fields: ctx
func (_m *MockJobQueue) Start(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Start")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockJobQueue_Start_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Start'
type MockJobQueue_Start_Call struct {
	*mock.Call
}

// Start is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockJobQueue_Expecter) Start(ctx interface{}) *MockJobQueue_Start_Call {
	return &MockJobQueue_Start_Call{Call: _e.mock.On("Start", ctx)}
}

func (_c *MockJobQueue_Start_Call) Run(run func(ctx context.Context)) *MockJobQueue_Start_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockJobQueue_Start_Call) Return(_a0 error) *MockJobQueue_Start_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobQueue_Start_Call) RunAndReturn(run func(context.Context) error) *MockJobQueue_Start_Call {
	_c.Call.Return(run)
	return _c
}

// Stop provides a mock function with no fields
func (_m *MockJobQueue) Stop() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Stop")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockJobQueue_Stop_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Stop'
type MockJobQueue_Stop_Call struct {
	*mock.Call
}

// Stop is a helper method to define mock.On call
func (_e *MockJobQueue_Expecter) Stop() *MockJobQueue_Stop_Call {
	return &MockJobQueue_Stop_Call{Call: _e.mock.On("Stop")}
}

func (_c *MockJobQueue_Stop_Call) Run(run func()) *MockJobQueue_Stop_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockJobQueue_Stop_Call) Return(_a0 error) *MockJobQueue_Stop_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobQueue_Stop_Call) RunAndReturn(run func() error) *MockJobQueue_Stop_Call {
	_c.Call.Return(run)
	return _c
}

// Suspend provides a mock function with given fields: id
func (_m *MockJobQueue) Suspend(id string) error {
	ret := _m.Called(id)

	if len(ret) == 0 {
		panic("no return value specified for Suspend")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(string) error); ok {
		r0 = rf(id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockJobQueue_Suspend_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Suspend'
type MockJobQueue_Suspend_Call struct {
	*mock.Call
}

// Suspend is a helper method to define mock.On call
//   - id string
func (_e *MockJobQueue_Expecter) Suspend(id interface{}) *MockJobQueue_Suspend_Call {
	return &MockJobQueue_Suspend_Call{Call: _e.mock.On("Suspend", id)}
}

func (_c *MockJobQueue_Suspend_Call) Run(run func(id string)) *MockJobQueue_Suspend_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(string))
	})
	return _c
}

func (_c *MockJobQueue_Suspend_Call) Return(_a0 error) *MockJobQueue_Suspend_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockJobQueue_Suspend_Call) RunAndReturn(run func(string) error) *MockJobQueue_Suspend_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockJobQueue creates a new instance of MockJobQueue. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockJobQueue(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockJobQueue {
	mock := &MockJobQueue{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
