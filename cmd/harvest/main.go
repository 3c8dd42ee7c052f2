// cmd/harvest/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"contact-harvester/internal/common/config"
	"contact-harvester/internal/common/errors"
	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/contact/orchestrator"
	"contact-harvester/internal/contact/pipeline"
)

// queryList collects repeated -q flags.
type queryList []string

func (q *queryList) String() string { return strings.Join(*q, ", ") }

func (q *queryList) Set(value string) error {
	*q = append(*q, value)
	return nil
}

type queryRunner interface {
	Run(ctx context.Context, query string, deepScan bool, observer orchestrator.ProgressObserver) (*pipeline.Result, error)
}

func main() {
	var queries queryList
	flag.Var(&queries, "q", "search query (repeatable); remaining arguments are queries too")
	configPath := flag.String("config", "", "path to a config YAML file (default: configs/config.yaml)")
	deepScan := flag.Bool("deep-scan", false, "probe contact sub-paths when a landing page has no data (default: extraction.deep_scan)")
	pretty := flag.Bool("pretty", true, "indent the JSON output")
	flag.Parse()
	queries = append(queries, flag.Args()...)

	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "usage: harvest -q <query> [-q <query> ...] [-config file] [-deep-scan]")
		os.Exit(2)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	flag.Visit(func(f *flag.Flag) {
		if f.Name == "deep-scan" {
			cfg.Extraction.DeepScan = *deepScan
		}
	})

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, "stderr")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	failed := runAll(ctx, pipeline.New(cfg, nil, log), queries, cfg.Extraction.DeepScan, os.Stdout, *pretty, log)
	if failed > 0 {
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

// runAll runs the queries one after another and writes one JSON document per
// query. It returns the number of queries that failed.
func runAll(ctx context.Context, runner queryRunner, queries []string, deepScan bool, out io.Writer, pretty bool, log logger.Logger) int {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}

	failed := 0
	for i, query := range queries {
		if ctx.Err() != nil {
			log.Warn("interrupted, skipping remaining queries", map[string]interface{}{"remaining": len(queries) - i})
			return failed + len(queries) - i
		}

		qlog := log.WithFields(map[string]interface{}{"query": query, "position": i + 1, "of": len(queries)})
		result, err := runner.Run(ctx, query, deepScan, orchestrator.ProgressFunc(func(done, total int) {
			qlog.Info("progress", map[string]interface{}{"done": done, "total": total})
		}))
		if err != nil {
			failed++
			qlog.Error("query failed", map[string]interface{}{
				"error": err.Error(),
				"code":  string(errors.CodeOf(err)),
			})
			continue
		}

		qlog.Info("query completed", map[string]interface{}{"runId": result.RunID})
		if err := enc.Encode(result.Output); err != nil {
			failed++
			qlog.Error("failed to write output", map[string]interface{}{"error": err.Error()})
		}
	}
	return failed
}
