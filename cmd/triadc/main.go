package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	infoColor    = color.New(color.FgCyan)
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func printInfo(msg string)     { infoColor.Printf("[INFO] %s\n", msg) }
func printSuccess(msg string)  { successColor.Printf("[SUCCESS] %s\n", msg) }
func printError(err error)     { errorColor.Printf("[ERROR] %s\n", err.Error()) }

func main() {
	rootCmd := &cobra.Command{
		Use:     "triadc",
		Short:   "Triad compiler - lowers a small imperative language to TAC and x86 assembly",
		Version: version,
	}

	compileCmd := &cobra.Command{
		Use:   "compile <file>",
		Short: "Compile a .triad source file",
		Args:  cobra.ExactArgs(1),
		RunE:  runCompile,
	}
	compileCmd.Flags().Bool("tokens", false, "Print the raw token stream")
	compileCmd.Flags().Bool("ast", false, "Print the parsed syntax tree")
	compileCmd.Flags().Bool("symbols", false, "Print the symbol table")
	compileCmd.Flags().Bool("tac", false, "Print the three-address code")
	compileCmd.Flags().Bool("asm", false, "Print the generated assembly")
	compileCmd.Flags().Bool("all", false, "Print every phase's output")
	compileCmd.Flags().String("output", "", "Also write the generated assembly to this file")
	compileCmd.Flags().String("cache-addr", "", "Redis address for the compile-artifact cache (empty disables caching)")

	watchCmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Recompile a .triad source file on every save",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
	watchCmd.Flags().Bool("asm", false, "Print the generated assembly on each recompile")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the compiler over HTTP",
		RunE:  runServe,
	}
	serveCmd.Flags().Int("port", 0, "Port to listen on (defaults to config server_port)")
	serveCmd.Flags().String("config", ".triadrc.yaml", "Path to the config file")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Print recent compile jobs from the history store",
		RunE:  runHistory,
	}
	historyCmd.Flags().String("config", ".triadrc.yaml", "Path to the config file")

	rootCmd.AddCommand(compileCmd, watchCmd, serveCmd, historyCmd)

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func changeExtension(path, ext string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[:i] + ext
		}
	}
	return path + ext
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
