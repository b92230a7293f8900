package script

import (
	"context"
	"io/ioutil"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gmodb/rwdb/pkg/driver"
	"github.com/gmodb/rwdb/pkg/metrics"
	"github.com/gmodb/rwdb/pkg/rwdb"
	"github.com/gmodb/rwdb/pkg/util/ast"
	"github.com/gmodb/rwdb/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

// ErrDuplicateColumn is the mysql error number of re-adding an existing column.
// Scripts are expected to be re-run, so it is reported as a warning.
const ErrDuplicateColumn = 1060

var commentRegexps = []*regexp.Regexp{
	regexp.MustCompile(`(?s)/\*.*?\*/`),
	regexp.MustCompile(`--[^\n]*`),
	regexp.MustCompile(`#[^\n]*`),
}

// Executor is the part of rwdb.Client the runner needs.
type Executor interface {
	Name() string
	ExecRaw(ctx context.Context, opts rwdb.ExecOptions, query string) error
}

// Report counts the statements run by a Runner.
type Report struct {
	Files      int
	Statements int
	Succeeded  int
	Warnings   int
	Failed     int
}

// Runner runs sql scripts statement by statement. A failing statement is logged
// and counted, and the runner goes on with the next one.
type Runner struct {
	exec   Executor
	logger *zap.Logger
}

func NewRunner(exec Executor) *Runner {
	return &Runner{
		exec:   exec,
		logger: logutil.BgLogger().With(zap.String("cluster", exec.Name())),
	}
}

// RunDir runs every *.sql file of dir in file name order.
func (r *Runner) RunDir(ctx context.Context, dir string) (*Report, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, errors.WithMessage(err, "list scripts")
	}

	r.logger.Info("running scripts", zap.String("dir", dir), zap.Int("count", len(files)))
	report := &Report{}
	for _, file := range files {
		if err := r.runFile(ctx, file, report); err != nil {
			return report, err
		}
	}
	r.logger.Info("scripts finished", zap.Int("files", report.Files), zap.Int("statements", report.Statements),
		zap.Int("warnings", report.Warnings), zap.Int("failed", report.Failed))
	return report, nil
}

func (r *Runner) runFile(ctx context.Context, file string, report *Report) error {
	data, err := ioutil.ReadFile(file)
	if err != nil {
		return errors.WithMessage(err, "read script")
	}
	report.Files++
	r.logger.Info("running script", zap.String("file", file))
	r.RunScript(ctx, string(data), report)
	return nil
}

// RunScript runs every statement of script and adds the outcome to report.
func (r *Runner) RunScript(ctx context.Context, script string, report *Report) {
	for _, stmt := range splitStatements(script) {
		if err := ctx.Err(); err != nil {
			return
		}
		report.Statements++
		r.logger.Info("Executing query", zap.String("query", stmt.Text), zap.String("kind", stmt.Kind),
			zap.String("table", stmt.Table))

		err := r.exec.ExecRaw(ctx, rwdb.ExecOptions{}, stmt.Text)
		code, msg := driver.ErrorCode(err)
		switch {
		case err == nil:
			report.Succeeded++
			r.logger.Info("Execution: SUCCESS")
			metrics.ScriptStmtCounter.WithLabelValues(r.exec.Name(), metrics.StmtKindSuccess).Inc()
		case code == ErrDuplicateColumn:
			report.Warnings++
			r.logger.Warn("Execution: "+msg, zap.Int("errorNum", code))
			metrics.ScriptStmtCounter.WithLabelValues(r.exec.Name(), metrics.StmtKindWarning).Inc()
		default:
			report.Failed++
			r.logger.Error("Execution: "+msg, zap.Int("errorNum", code))
			metrics.ScriptStmtCounter.WithLabelValues(r.exec.Name(), metrics.StmtKindError).Inc()
		}
	}
}

// StripComments removes /* */, -- and # comments.
func StripComments(script string) string {
	for _, re := range commentRegexps {
		script = re.ReplaceAllString(script, "\n")
	}
	return script
}

// SplitStatements strips comments and splits script into statements. The sql parser is
// tried first; scripts it can not parse, such as sqlite dialect ones, are split on ";".
func SplitStatements(script string) []string {
	parsed := splitStatements(script)
	stmts := make([]string, 0, len(parsed))
	for _, stmt := range parsed {
		stmts = append(stmts, stmt.Text)
	}
	return stmts
}

func splitStatements(script string) []*ast.Statement {
	script = StripComments(script)
	if stmts, err := ast.Split(script); err == nil {
		return stmts
	}

	var stmts []*ast.Statement
	for _, part := range strings.Split(script, ";") {
		if text := strings.TrimSpace(part); text != "" {
			stmts = append(stmts, &ast.Statement{Text: text, Kind: ast.KindOther})
		}
	}
	return stmts
}
