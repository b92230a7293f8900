package main

import (
	"context"
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/gmodb/rwdb/pkg/config"
	"github.com/gmodb/rwdb/pkg/metrics"
	"github.com/gmodb/rwdb/pkg/util/logutil"
)

var (
	configFilePath = flag.String("config", "conf/rwdbctl.yaml", "rwdbctl config file path")
	useMaster      = flag.Bool("master", false, "send queries to the master even if a slave could serve them")
	noLock         = flag.Bool("nolock", false, "run queries under READ UNCOMMITTED")
)

const usage = `usage: rwdbctl [flags] <command> [args]

commands:
  query <cluster> <sql> [params...]   run one statement and print the rows
  run-scripts <cluster> <dir>         run the *.sql files of dir in name order
  serve                               connect all clusters and serve the admin api

flags:
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	toolConfigData, err := ioutil.ReadFile(*configFilePath)
	if err != nil {
		fmt.Printf("read config file error: %v\n", err)
		os.Exit(1)
	}

	toolCfg, err := config.UnmarshalToolConfig(toolConfigData)
	if err != nil {
		fmt.Printf("parse config file error: %v\n", err)
		os.Exit(1)
	}

	if err := logutil.InitLogger(&toolCfg.Log); err != nil {
		fmt.Printf("init logger error: %v\n", err)
		os.Exit(1)
	}
	metrics.RegisterMetrics()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	switch args[0] {
	case "query":
		err = runQuery(ctx, toolCfg, args[1:])
	case "run-scripts":
		err = runScripts(ctx, toolCfg, args[1:])
	case "serve":
		err = serve(ctx, toolCfg)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Printf("%s error: %v\n", args[0], err)
		os.Exit(1)
	}
}
