package rwdb

import (
	"context"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/stretchr/testify/mock"
)

type MockConnector struct {
	mock.Mock
}

func (_m *MockConnector) Connect(ctx context.Context, desc *driver.Descriptor) (driver.Conn, error) {
	ret := _m.Called(ctx, desc)

	var r0 driver.Conn
	if v := ret.Get(0); v != nil {
		r0 = v.(driver.Conn)
	}
	return r0, ret.Error(1)
}

type MockConn struct {
	mock.Mock
}

func (_m *MockConn) Ping(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *MockConn) Prepare(ctx context.Context, query string) (driver.Stmt, error) {
	ret := _m.Called(ctx, query)

	var r0 driver.Stmt
	if v := ret.Get(0); v != nil {
		r0 = v.(driver.Stmt)
	}
	return r0, ret.Error(1)
}

func (_m *MockConn) Exec(ctx context.Context, query string) error {
	ret := _m.Called(ctx, query)
	return ret.Error(0)
}

func (_m *MockConn) SetAutoCommit(ctx context.Context, autocommit bool) error {
	ret := _m.Called(ctx, autocommit)
	return ret.Error(0)
}

func (_m *MockConn) Commit(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *MockConn) Rollback(ctx context.Context) error {
	ret := _m.Called(ctx)
	return ret.Error(0)
}

func (_m *MockConn) LastInsertID(ctx context.Context) (int64, error) {
	ret := _m.Called(ctx)
	return ret.Get(0).(int64), ret.Error(1)
}

func (_m *MockConn) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}

type MockStmt struct {
	mock.Mock
}

func (_m *MockStmt) Execute(ctx context.Context, args []driver.Value) (*driver.Result, error) {
	ret := _m.Called(ctx, args)

	var r0 *driver.Result
	if v := ret.Get(0); v != nil {
		r0 = v.(*driver.Result)
	}
	return r0, ret.Error(1)
}

func (_m *MockStmt) Close() error {
	ret := _m.Called()
	return ret.Error(0)
}
