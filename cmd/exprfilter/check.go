// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/exprfilter/exprfilter/compiler"
	"github.com/exprfilter/exprfilter/ferr"
	"github.com/exprfilter/exprfilter/filterctx"
	"github.com/exprfilter/exprfilter/function"
	"github.com/exprfilter/exprfilter/metrics"
	"github.com/exprfilter/exprfilter/parser"
)

// newCheckCmd builds the "check" subcommand: parse + compile + execute
// a filter expression against one record, end to end.
func newCheckCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a filter expression against a record",
		Long: `Load a field schema and a JSON-encoded record, compile a filter
expression, and report whether the record matches.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadCheckConfig(cmd, configPath)
			if err != nil {
				return err
			}
			return runCheck(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().String("schema", "", "path to a JSON schema description ({\"field\": \"type\", ...})")
	cmd.Flags().String("record", "", "path to a JSON-encoded record")
	cmd.Flags().String("expr", "", "filter expression to evaluate")

	return cmd
}

func runCheck(cmd *cobra.Command, cfg *checkConfig) error {
	if cfg.SchemaFile == "" || cfg.RecordFile == "" || cfg.Expr == "" {
		return ferr.New(ferr.KindOther, "--schema, --record, and --expr are all required")
	}

	fields, err := readJSONFile[map[string]string](cfg.SchemaFile)
	if err != nil {
		return ferr.Wrap(ferr.KindOther, err, "reading schema %q", cfg.SchemaFile)
	}
	sch, err := buildSchema(fields)
	if err != nil {
		return ferr.Wrap(ferr.KindOther, err, "building schema")
	}

	recordData, err := os.ReadFile(cfg.RecordFile)
	if err != nil {
		return ferr.Wrap(ferr.KindOther, err, "reading record %q", cfg.RecordFile)
	}
	ctx := filterctx.New(sch)
	if err := json.Unmarshal(recordData, ctx); err != nil {
		return ferr.Wrap(ferr.KindOther, err, "decoding record")
	}

	funcs := function.NewBuilder().RegisterBuiltins().Build()
	tree, err := parser.Parse(cfg.Expr, sch)
	if err != nil {
		return ferr.Wrap(ferr.KindParse, err, "parsing expression")
	}
	cf := compiler.Compile(tree, sch, funcs)

	ie := &metrics.InstrumentedEvaluator{}
	result, err := ie.Evaluate(cf, ctx)
	if err != nil {
		slog.Error("evaluation failed", "kind", kindOf(err), "error", err)
		return err
	}

	cmd.Println(result)
	return nil
}

func kindOf(err error) ferr.Kind {
	fe, ok := err.(*ferr.Error)
	if !ok {
		return ferr.KindOther
	}
	return fe.Kind
}

func readJSONFile[T any](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, err
	}
	return out, nil
}
