package rwdb

import (
	"context"

	"github.com/gmodb/rwdb/pkg/driver"
	rwerrors "github.com/gmodb/rwdb/pkg/util/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (s *ClientTestSuite) expectBegin() {
	s.master.On("SetAutoCommit", mock.Anything, false).Return(nil).Once()
	s.master.On("SetAutoCommit", mock.Anything, true).Return(nil).Once()
}

func (s *ClientTestSuite) TestTransaction_Commit() {
	s.expectAlive(s.master, s.slave)
	s.expectBegin()
	s.master.On("Commit", mock.Anything).Return(nil).Once()
	s.expectStmt(s.master, "SELECT name FROM users WHERE id = ?", []driver.Value{driver.Integer(1)},
		&driver.Result{Columns: []string{"name"}, Rows: [][]interface{}{{"ann"}}}, nil)

	originSlave := s.client.slave
	name, err := WithTransaction(context.Background(), s.client, func(ctx context.Context, c *Client) (interface{}, error) {
		require.Same(s.T(), c.master, c.slave)
		return c.SingleValue(ctx, "SELECT name FROM users WHERE id = ?", 1)
	})
	require.NoError(s.T(), err)
	require.Equal(s.T(), "ann", name)
	require.Same(s.T(), originSlave, s.client.slave)
	require.False(s.T(), s.client.inTxn)
	s.master.AssertExpectations(s.T())
	s.master.AssertNotCalled(s.T(), "Rollback", mock.Anything)
	s.slave.AssertNotCalled(s.T(), "Prepare", mock.Anything, mock.Anything)
}

func (s *ClientTestSuite) TestTransaction_RollbackOnError() {
	s.expectAlive(s.master, s.slave)
	s.expectBegin()
	s.master.On("Rollback", mock.Anything).Return(nil).Once()

	originSlave := s.client.slave
	err := s.client.Transaction(context.Background(), func(ctx context.Context, c *Client) error {
		return mockError
	})
	require.Equal(s.T(), mockError, err)
	require.Same(s.T(), originSlave, s.client.slave)
	s.master.AssertExpectations(s.T())
	s.master.AssertNotCalled(s.T(), "Commit", mock.Anything)
}

func (s *ClientTestSuite) TestTransaction_RollbackOnPanic() {
	s.expectAlive(s.master, s.slave)
	s.expectBegin()
	s.master.On("Rollback", mock.Anything).Return(nil).Once()

	originSlave := s.client.slave
	require.PanicsWithValue(s.T(), "boom", func() {
		_ = s.client.Transaction(context.Background(), func(ctx context.Context, c *Client) error {
			panic("boom")
		})
	})
	require.Same(s.T(), originSlave, s.client.slave)
	require.False(s.T(), s.client.inTxn)
	s.master.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestTransaction_CommitFailure() {
	s.expectAlive(s.master, s.slave)
	s.expectBegin()
	s.master.On("Commit", mock.Anything).Return(mockError).Once()
	s.master.On("Rollback", mock.Anything).Return(nil).Once()

	err := s.client.Transaction(context.Background(), func(ctx context.Context, c *Client) error {
		return nil
	})
	require.Equal(s.T(), mockError, err)
	s.master.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestTransaction_BeginFailure() {
	s.expectAlive(s.master, s.slave)
	s.master.On("SetAutoCommit", mock.Anything, false).Return(mockError).Once()

	called := false
	err := s.client.Transaction(context.Background(), func(ctx context.Context, c *Client) error {
		called = true
		return nil
	})
	require.Error(s.T(), err)
	require.False(s.T(), called)
	require.False(s.T(), s.client.inTxn)
	require.NotSame(s.T(), s.client.master, s.client.slave)
}

func (s *ClientTestSuite) TestTransaction_RestoreAutoCommitFailure() {
	s.expectAlive(s.master, s.slave)
	s.master.On("SetAutoCommit", mock.Anything, false).Return(nil).Once()
	s.master.On("SetAutoCommit", mock.Anything, true).Return(mockError).Once()
	s.master.On("Commit", mock.Anything).Return(nil).Once()

	err := s.client.Transaction(context.Background(), func(ctx context.Context, c *Client) error {
		return nil
	})
	require.NoError(s.T(), err)
	require.True(s.T(), s.client.master.stale)
}

func (s *ClientTestSuite) TestTransaction_NestedJoinsOuter() {
	s.expectAlive(s.master, s.slave)
	s.expectBegin()
	s.master.On("Commit", mock.Anything).Return(nil).Once()

	err := s.client.Transaction(context.Background(), func(ctx context.Context, c *Client) error {
		return c.Transaction(ctx, func(ctx context.Context, c *Client) error {
			return nil
		})
	})
	require.NoError(s.T(), err)
	s.master.AssertNumberOfCalls(s.T(), "SetAutoCommit", 2)
	s.master.AssertNumberOfCalls(s.T(), "Commit", 1)
}

func (s *ClientTestSuite) TestInsertAndReturnID() {
	s.expectAlive(s.master, s.slave)
	s.expectBegin()
	s.master.On("Commit", mock.Anything).Return(nil).Once()
	s.master.On("LastInsertID", mock.Anything).Return(int64(42), nil).Once()
	s.expectStmt(s.master, "INSERT INTO users (name) VALUES (?)", []driver.Value{driver.Text("ann")},
		&driver.Result{AffectedRows: 1, InsertID: 42}, nil)

	id, err := s.client.InsertAndReturnID(context.Background(), "INSERT INTO users (name) VALUES (?)", "ann")
	require.NoError(s.T(), err)
	require.Equal(s.T(), int64(42), id)
	require.Equal(s.T(), int64(1), s.client.AffectedRows())
	s.master.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestInsertAndReturnID_Failure() {
	s.expectAlive(s.master, s.slave)
	s.expectBegin()
	s.master.On("Rollback", mock.Anything).Return(nil).Once()
	s.expectStmt(s.master, "INSERT INTO users (id) VALUES (?)", []driver.Value{driver.Integer(1)},
		nil, driver.NewError(1062, "Duplicate entry '1' for key 'PRIMARY'", nil))

	id, err := s.client.InsertAndReturnID(context.Background(), "INSERT INTO users (id) VALUES (?)", 1)
	require.Equal(s.T(), int64(0), id)
	serr, ok := AsStatementError(err)
	require.True(s.T(), ok)
	require.Equal(s.T(), 1062, serr.Code)
	s.master.AssertNotCalled(s.T(), "LastInsertID", mock.Anything)
}

func (s *ClientTestSuite) expectMasterLostAfter(alivePings int) {
	s.master.On("Ping", mock.Anything).Return(nil).Times(alivePings)
	s.master.On("Ping", mock.Anything).Return(mockError).Once()
	s.master.On("Close").Return(nil).Once()
	s.master.On("SetAutoCommit", mock.Anything, false).Return(nil).Once()
}

func (s *ClientTestSuite) TestTransaction_MasterLostIsNotReopened() {
	s.expectMasterLostAfter(2)
	s.expectStmt(s.master, "INSERT INTO users (id) VALUES (?)", []driver.Value{driver.Integer(1)},
		&driver.Result{AffectedRows: 1}, nil)

	originSlave := s.client.slave
	err := s.client.Transaction(context.Background(), func(ctx context.Context, c *Client) error {
		if _, err := c.Execute(ctx, "INSERT INTO users (id) VALUES (?)", 1); err != nil {
			return err
		}
		_, err := c.Execute(ctx, "INSERT INTO users (id) VALUES (?)", 2)
		return err
	})
	require.True(s.T(), IsConnectionError(err))
	require.True(s.T(), rwerrors.Is(err, ErrTransactionLost))
	require.Same(s.T(), originSlave, s.client.slave)
	require.False(s.T(), s.client.inTxn)
	require.True(s.T(), s.client.master.stale)
	require.Nil(s.T(), s.client.master.conn)

	// no new connection was opened inside the transaction
	s.connector.AssertNumberOfCalls(s.T(), "Connect", 2)
	s.master.AssertNotCalled(s.T(), "Commit", mock.Anything)
	s.master.AssertNotCalled(s.T(), "Rollback", mock.Anything)
	s.master.AssertExpectations(s.T())

	// the first statement after the transaction reopens the master
	newMaster := new(MockConn)
	s.connector.On("Connect", mock.Anything, hostIs(masterHost)).Return(newMaster, nil).Once()
	s.expectAlive(newMaster, s.slave)
	require.NoError(s.T(), s.client.Ping(context.Background()))
	require.Same(s.T(), newMaster, s.client.master.conn)
	newMaster.AssertNotCalled(s.T(), "SetAutoCommit", mock.Anything, mock.Anything)
}

func (s *ClientTestSuite) TestTransaction_MasterLostErrorSwallowed() {
	s.expectMasterLostAfter(1)

	err := s.client.Transaction(context.Background(), func(ctx context.Context, c *Client) error {
		_, _ = c.Execute(ctx, "INSERT INTO users (id) VALUES (?)", 1)
		_, err := c.Execute(ctx, "INSERT INTO users (id) VALUES (?)", 2)
		require.True(s.T(), rwerrors.Is(err, ErrTransactionLost))
		return nil
	})
	require.True(s.T(), rwerrors.Is(err, ErrTransactionLost))
	require.False(s.T(), s.client.inTxn)
	s.connector.AssertNumberOfCalls(s.T(), "Connect", 2)
	s.master.AssertNotCalled(s.T(), "Commit", mock.Anything)
	s.master.AssertNotCalled(s.T(), "Prepare", mock.Anything, mock.Anything)
}
