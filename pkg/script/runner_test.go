package script

import (
	"context"
	"testing"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/gmodb/rwdb/pkg/rwdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExecutor struct {
	mock.Mock
}

func (_m *MockExecutor) Name() string {
	return "test"
}

func (_m *MockExecutor) ExecRaw(ctx context.Context, opts rwdb.ExecOptions, query string) error {
	ret := _m.Called(ctx, opts, query)
	return ret.Error(0)
}

func TestStripComments(t *testing.T) {
	stripped := StripComments("SELECT /* inline\n block */ 1; -- dash comment\nSELECT 2 # hash comment\n")
	assert.NotContains(t, stripped, "inline")
	assert.NotContains(t, stripped, "block")
	assert.NotContains(t, stripped, "dash")
	assert.NotContains(t, stripped, "hash")
	assert.Contains(t, stripped, "SELECT 2")
}

func TestSplitStatements(t *testing.T) {
	assert.Equal(t, []string{"SELECT 1", "SELECT 2"}, SplitStatements("SELECT 1; -- one\n SELECT 2 # two\n;"))
	assert.Empty(t, SplitStatements("-- nothing here\n  ;\n"))
}

func TestSplitStatements_Fallback(t *testing.T) {
	stmts := SplitStatements("CREATE TABLE t (id INTEGER PRIMARY KEY AUTOINCREMENT);\nINSERT OR IGNORE INTO t (id) VALUES (1);")
	require.Len(t, stmts, 2)
	assert.Equal(t, "INSERT OR IGNORE INTO t (id) VALUES (1)", stmts[1])
}

func TestRunDir(t *testing.T) {
	exec := new(MockExecutor)
	exec.On("ExecRaw", mock.Anything, rwdb.ExecOptions{}, mock.Anything).Return(nil).Times(3)
	exec.On("ExecRaw", mock.Anything, rwdb.ExecOptions{}, mock.Anything).
		Return(driver.NewError(ErrDuplicateColumn, "Duplicate column name 'email'", nil)).Once()
	exec.On("ExecRaw", mock.Anything, rwdb.ExecOptions{}, mock.Anything).
		Return(driver.NewError(1146, "Table 'test.missing' doesn't exist", nil)).Once()

	report, err := NewRunner(exec).RunDir(context.Background(), "testdata/scripts")
	require.NoError(t, err)
	assert.Equal(t, &Report{Files: 2, Statements: 5, Succeeded: 3, Warnings: 1, Failed: 1}, report)
	exec.AssertExpectations(t)
}

func TestRunDir_Empty(t *testing.T) {
	exec := new(MockExecutor)
	report, err := NewRunner(exec).RunDir(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, &Report{}, report)
	exec.AssertNotCalled(t, "ExecRaw", mock.Anything, mock.Anything, mock.Anything)
}

func TestRunScript_Canceled(t *testing.T) {
	exec := new(MockExecutor)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := &Report{}
	NewRunner(exec).RunScript(ctx, "SELECT 1; SELECT 2;", report)
	assert.Equal(t, 0, report.Statements)
}
