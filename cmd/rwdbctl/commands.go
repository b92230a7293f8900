package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gmodb/rwdb/pkg/admin"
	"github.com/gmodb/rwdb/pkg/cluster"
	"github.com/gmodb/rwdb/pkg/config"
	"github.com/gmodb/rwdb/pkg/configcenter"
	"github.com/gmodb/rwdb/pkg/rwdb"
	"github.com/gmodb/rwdb/pkg/script"
	"github.com/gmodb/rwdb/pkg/util/logutil"
	"github.com/goccy/go-yaml"
	"github.com/pingcap/errors"
	"go.uber.org/zap"
)

func connectCluster(ctx context.Context, cfg *config.Tool, name string) (*rwdb.Client, error) {
	cfgCenter, err := configcenter.CreateConfigCenter(cfg.ConfigCenter)
	if err != nil {
		return nil, err
	}
	defer cfgCenter.Close()

	clusterCfg, err := cfgCenter.GetCluster(ctx, name)
	if err != nil {
		return nil, err
	}
	return cluster.DefaultBuilder(ctx, clusterCfg)
}

func runQuery(ctx context.Context, cfg *config.Tool, args []string) error {
	if len(args) < 2 {
		return errors.New("query needs a cluster and a statement")
	}
	client, err := connectCluster(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	defer client.Close()

	params := make([]interface{}, 0, len(args)-2)
	for _, p := range args[2:] {
		params = append(params, p)
	}

	rows, err := client.ExecuteWith(ctx, rwdb.ExecOptions{UseMaster: *useMaster, NoLock: *noLock}, args[1], params...)
	if err != nil {
		return err
	}
	return printRows(rows, client.AffectedRows())
}

func printRows(rows []rwdb.Row, affectedRows int64) error {
	out := make([]yaml.MapSlice, 0, len(rows))
	for _, row := range rows {
		item := make(yaml.MapSlice, 0, row.Len())
		for i, col := range row.Columns() {
			item = append(item, yaml.MapItem{Key: col, Value: row.Value(i)})
		}
		out = append(out, item)
	}
	if len(out) > 0 {
		data, err := yaml.Marshal(out)
		if err != nil {
			return err
		}
		fmt.Print(string(data))
	}
	fmt.Printf("%d row(s) affected\n", affectedRows)
	return nil
}

func runScripts(ctx context.Context, cfg *config.Tool, args []string) error {
	if len(args) != 2 {
		return errors.New("run-scripts needs a cluster and a directory")
	}
	client, err := connectCluster(ctx, cfg, args[0])
	if err != nil {
		return err
	}
	defer client.Close()

	report, err := script.NewRunner(client).RunDir(ctx, args[1])
	if err != nil {
		return err
	}
	fmt.Printf("files: %d, statements: %d, succeeded: %d, warnings: %d, failed: %d\n",
		report.Files, report.Statements, report.Succeeded, report.Warnings, report.Failed)
	if report.Failed > 0 {
		return errors.Errorf("%d statement(s) failed", report.Failed)
	}
	return nil
}

func serve(ctx context.Context, cfg *config.Tool) error {
	cfgCenter, err := configcenter.CreateConfigCenter(cfg.ConfigCenter)
	if err != nil {
		return err
	}
	defer cfgCenter.Close()

	clusterCfgs, err := cfgCenter.ListAllClusters(ctx)
	if err != nil {
		return errors.WithMessage(err, "list clusters error")
	}

	mgr, err := cluster.CreateManager(ctx, clusterCfgs, cluster.DefaultBuilder)
	if err != nil {
		return err
	}
	defer mgr.Close()

	apiServer, err := admin.CreateHttpApiServer(mgr, cfgCenter, &cfg.AdminServer)
	if err != nil {
		return err
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
		syscall.SIGPIPE,
		syscall.SIGUSR1,
	)
	defer signal.Stop(sc)

	go func() {
		for {
			sig := <-sc
			if sig == syscall.SIGINT || sig == syscall.SIGTERM || sig == syscall.SIGQUIT {
				logutil.BgLogger().Warn("get os signal, close admin server", zap.String("signal", sig.String()))
				apiServer.Close()
				return
			}
			logutil.BgLogger().Warn("ignore os signal", zap.String("signal", sig.String()))
		}
	}()

	return apiServer.Run()
}
