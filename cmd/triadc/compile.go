package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/triadc/triadc/pkg/ast"
	"github.com/triadc/triadc/pkg/cache"
	"github.com/triadc/triadc/pkg/diagnostics"
	"github.com/triadc/triadc/pkg/driver"
	"github.com/triadc/triadc/pkg/lexer"
	"github.com/triadc/triadc/pkg/logging"
	"github.com/triadc/triadc/pkg/metrics"
	"github.com/triadc/triadc/pkg/parser"
)

// phaseFlags is which of a compile's intermediate phases the user
// asked to see, per the --tokens/--ast/--symbols/--tac/--asm/--all
// flags on `triadc compile`.
type phaseFlags struct {
	tokens, ast, symbols, tac, asm bool
}

func readPhaseFlags(cmd *cobra.Command) phaseFlags {
	var f phaseFlags
	f.tokens, _ = cmd.Flags().GetBool("tokens")
	f.ast, _ = cmd.Flags().GetBool("ast")
	f.symbols, _ = cmd.Flags().GetBool("symbols")
	f.tac, _ = cmd.Flags().GetBool("tac")
	f.asm, _ = cmd.Flags().GetBool("asm")
	if all, _ := cmd.Flags().GetBool("all"); all {
		f = phaseFlags{tokens: true, ast: true, symbols: true, tac: true, asm: true}
	}
	return f
}

func runCompile(cmd *cobra.Command, args []string) error {
	filePath := args[0]
	flags := readPhaseFlags(cmd)
	output, _ := cmd.Flags().GetString("output")
	cacheAddr, _ := cmd.Flags().GetString("cache-addr")

	source, err := readSource(filePath)
	if err != nil {
		return err
	}

	if flags.tokens {
		printTokens(source)
	}
	if flags.ast {
		printAST(source)
	}

	logger := logging.New(logging.Config{MinLevel: logging.INFO, Format: logging.TextFormat})
	m := metrics.New(metrics.DefaultConfig())

	var store cache.Store = cache.NewMemoryStore()
	if cacheAddr != "" {
		store = cache.NewRedisStoreFromAddr(cacheAddr)
	}

	ctx := context.Background()
	jobID := logging.NewJobID()
	log := logger.WithJobID(jobID)

	key := cache.KeyFor(source)
	if entry, err := store.Get(ctx, key); err == nil {
		m.RecordCacheHit()
		log.Info("cache hit, skipping compile")
		if flags.symbols {
			printInfo("symbol table unavailable on a cache hit (analysis did not run)")
		}
		return emitResult(entry.TAC, entry.Assembly, flags, output)
	}
	m.RecordCacheMiss()

	printInfo(fmt.Sprintf("compiling %s", filePath))
	start := time.Now()

	d := driver.New()
	res, err := d.Compile(source)
	if err != nil {
		m.ObserveCompile("error", "total", time.Since(start).Seconds())
		ce := diagnostics.FromError(err, source)
		printError(fmt.Errorf("%s", ce.Format(true)))
		return err
	}
	m.ObserveCompile("success", "total", time.Since(start).Seconds())

	if flags.symbols {
		fmt.Println("--- Symbols ---")
		fmt.Print(d.Symbols().Dump())
	}

	store.Set(ctx, key, cache.Entry{TAC: res.TAC, Assembly: res.Assembly}, time.Hour)
	printSuccess(fmt.Sprintf("compiled %s in %s", filePath, time.Since(start)))

	return emitResult(res.TAC, res.Assembly, flags, output)
}

// printTokens prints the raw token stream produced by the lexer,
// ahead of parsing. A lexical error is reported but does not abort
// the rest of the compile: the driver will hit the same error and
// report it through the normal diagnostic path.
func printTokens(source string) {
	tokens, err := lexer.New(source).Tokenize()
	if err != nil {
		printError(err)
	}
	fmt.Println("--- Tokens ---")
	for _, tok := range tokens {
		fmt.Println(tok)
	}
}

// printAST prints the parsed syntax tree. Parsing here is separate
// from the driver's own parse inside Compile; a parse error is
// reported and the dump skipped, since the driver will surface the
// same error shortly after.
func printAST(source string) {
	root, err := parser.Parse(source)
	if err != nil {
		printError(err)
		return
	}
	fmt.Println("--- AST ---")
	fmt.Print(ast.Dump(root))
}

func emitResult(tac, asm string, flags phaseFlags, output string) error {
	if flags.tac {
		fmt.Println("--- TAC ---")
		fmt.Println(tac)
	}
	if flags.asm {
		fmt.Println("--- Assembly ---")
		fmt.Println(asm)
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(asm), 0644); err != nil {
			return fmt.Errorf("writing %s: %w", output, err)
		}
		printInfo(fmt.Sprintf("assembly written to %s", output))
	}
	return nil
}
