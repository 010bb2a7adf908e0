package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/perihelia/graphlink"
)

// runOperation is the shared body of the query and mutate commands.
func runOperation(cmd *cobra.Command, args []string, file string, varFlags []string, mutate bool) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	src, err := readDocument(args, file)
	if err != nil {
		return err
	}
	doc, err := graphlink.ParseDocument(src)
	if err != nil {
		return err
	}
	vars, err := parseVars(varFlags)
	if err != nil {
		return err
	}

	client, err := buildClient(cfg, logger, graphlink.Hooks{})
	if err != nil {
		return err
	}

	var res *graphlink.Result
	if mutate {
		res, err = client.Mutate(cmd.Context(), doc, vars)
	} else {
		res, err = client.Query(cmd.Context(), doc, vars)
	}
	if err != nil {
		return err
	}
	return printResult(cmd, res)
}

// parseVars turns repeated key=value flags into variables. Values are
// decoded as JSON; anything that does not decode is kept as a string.
func parseVars(flags []string) (graphlink.Variables, error) {
	if len(flags) == 0 {
		return nil, nil
	}
	vars := graphlink.Variables{}
	for _, f := range flags {
		key, raw, ok := strings.Cut(f, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q: expected key=value", f)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		vars[key] = v
	}
	return vars, nil
}

func printResult(cmd *cobra.Command, res *graphlink.Result) error {
	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	if res.HasErrors() {
		return fmt.Errorf("operation returned %d error(s)", len(res.Errors))
	}
	return nil
}
