// Command simplec compiles one or more SIMPLE source files into SML word
// sequences.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/avelino/simplec/compiler"
	"github.com/avelino/simplec/config"
	"github.com/avelino/simplec/internal/dump"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("simplec", flag.ContinueOnError)
	var (
		showVersion = fs.Bool("version", false, "Show version information")
		debugMode   = fs.Bool("debug", false, "Emit supplementary token/constant/variable/line-equivalence dumps")
		despite     = fs.Bool("compile-despite-errors", false, "Run code generation even if earlier stages reported errors")
		configPath  = fs.String("config", "", "Path to simplec.toml (default: platform config directory)")
		outputPath  = fs.String("o", "", "Output file for the emitted word sequence (default: from config, \"-\" means stdout)")
		dumpFormat  = fs.String("dump-format", "", "Debug dump format: table or json (default: from config)")
	)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: simplec [flags] file.simple [file2.simple ...]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Printf("simplec %s (commit %s, built %s)\n", Version, Commit, Date)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simplec: %v\n", err)
		return 1
	}
	if *debugMode {
		cfg.Debug = true
	}
	if *despite {
		cfg.CompileDespiteErrors = true
	}
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}
	if *dumpFormat != "" {
		cfg.Dump.Format = *dumpFormat
	}

	files := fs.Args()
	if len(files) == 0 {
		fs.Usage()
		return 2
	}

	return compileFiles(files, *cfg)
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// compileFiles compiles every file independently, bounded by a worker pool
// sized to the host's CPU count, since no file's compilation depends on
// another's result.
func compileFiles(files []string, cfg config.Config) int {
	workers := runtime.NumCPU()
	if workers > len(files) {
		workers = len(files)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	results := make([]int, len(files))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				idx := indexOf(files, path)
				results[idx] = compileOne(path, cfg, len(files) > 1)
			}
		}()
	}
	go func() {
		defer close(jobs)
		for _, f := range files {
			jobs <- f
		}
	}()
	wg.Wait()

	exit := 0
	for _, code := range results {
		if code != 0 {
			exit = code
		}
	}
	return exit
}

// indexOf locates path's position in files. Paths are not repeated in a
// single invocation, so a linear scan over the (small) file list is fine.
func indexOf(files []string, path string) int {
	for i, f := range files {
		if f == path {
			return i
		}
	}
	return 0
}

func compileOne(path string, cfg config.Config, multi bool) int {
	source, err := os.ReadFile(path) // #nosec G304 -- operator-supplied source path
	if err != nil {
		fmt.Fprintf(os.Stderr, "simplec: %s: %v\n", path, err)
		return 1
	}

	res := compiler.Compile(string(source), cfg)

	for _, d := range res.Diagnostics.All() {
		fmt.Fprintf(os.Stderr, "%s: %s\n", path, d)
	}

	if cfg.Debug {
		if cfg.Dump.Format == "json" {
			printJSONDump(path, res)
		} else {
			printDebugDumps(path, res)
		}
	}

	if res.Words != nil {
		if err := writeWords(path, res.Words, cfg, multi); err != nil {
			fmt.Fprintf(os.Stderr, "simplec: %s: %v\n", path, err)
			return 1
		}
	}
	if res.Inoperante {
		fmt.Fprintf(os.Stderr, "%s: compiled despite errors (inoperante)\n", path)
	}

	if res.Diagnostics.HadErrors() && !cfg.CompileDespiteErrors {
		return 1
	}
	return 0
}

// writeWords writes the emitted word sequence to cfg.Output.Path. When
// compiling more than one file and an explicit (non-stdout) path was
// configured, each file's output is instead written alongside its source
// with a .sml extension, since one fixed path cannot serve every file.
func writeWords(path string, words []string, cfg config.Config, multi bool) error {
	dest := cfg.Output.Path
	if dest == "-" {
		w := os.Stdout
		if multi {
			fmt.Fprintf(w, "; %s\n", path)
		}
		for _, word := range words {
			fmt.Fprintln(w, word)
		}
		return nil
	}

	if multi {
		dest = strings.TrimSuffix(path, filepath.Ext(path)) + ".sml"
	}

	f, err := os.Create(dest) // #nosec G304 -- operator-supplied output path
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	for _, word := range words {
		if _, err := fmt.Fprintln(f, word); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
	}
	return nil
}

// jsonDump is the machine-readable counterpart to the tview-rendered table
// dumps, for hosts that want to consume debug data rather than display it.
type jsonDump struct {
	Tokens     []string       `json:"tokens"`
	Consts     []int          `json:"consts"`
	ConstAddr  []int          `json:"const_addr"`
	Vars       string         `json:"vars"`
	VarValues  map[string]int `json:"var_values"`
	VarAddr    map[string]int `json:"var_addr"`
	EquivLines map[string]int `json:"equiv_lines"`
}

func printJSONDump(path string, res *compiler.Result) {
	tokens := make([]string, len(res.Tokens))
	for i, t := range res.Tokens {
		tokens[i] = t.String()
	}
	vars := make([]byte, len(res.Vars))
	for i, v := range res.Vars {
		vars[i] = byte(v)
	}
	varValues := make(map[string]int, len(res.VarValues))
	for name, v := range res.VarValues {
		varValues[string(name)] = v
	}
	varAddr := make(map[string]int, len(res.VarAddr))
	for name, a := range res.VarAddr {
		varAddr[string(name)] = a
	}
	equivLines := make(map[string]int, len(res.EquivLines))
	for line, addr := range res.EquivLines {
		equivLines[fmt.Sprint(line)] = addr
	}

	out, err := json.MarshalIndent(jsonDump{
		Tokens:     tokens,
		Consts:     res.Consts,
		ConstAddr:  res.ConstAddr,
		Vars:       string(vars),
		VarValues:  varValues,
		VarAddr:    varAddr,
		EquivLines: equivLines,
	}, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "simplec: %s: json dump: %v\n", path, err)
		return
	}
	fmt.Fprintf(os.Stderr, "--- %s: debug dump ---\n%s\n", path, out)
}

func printDebugDumps(path string, res *compiler.Result) {
	tables := []dump.Table{
		dump.Tokens(res.Tokens),
		dump.Constants(res.Consts, res.ConstAddr),
		dump.Variables(res.Vars, res.VarValues, res.VarAddr),
		dump.LineEquivalence(res.EquivLines),
	}
	for _, tbl := range tables {
		out, err := dump.Render(tbl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "simplec: %s: dump %s: %v\n", path, tbl.Title, err)
			continue
		}
		fmt.Fprintf(os.Stderr, "--- %s: %s ---\n%s", path, tbl.Title, out)
	}
}
