// SquareFit places weighted points as non-overlapping squares on the integer
// grid while keeping them close to where they started.
//
// Usage:
//
//	squarefit [flags] <instance>
//
// The instance is either the plain text format or a point list in CSV, Excel
// or DXF form, chosen by file extension. The solution is written to stdout
// unless -o is given.
//
// Build:
//
//	go build -o squarefit ./cmd/squarefit
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/piwi3910/SquareFit/internal/checker"
	"github.com/piwi3910/SquareFit/internal/engine"
	"github.com/piwi3910/SquareFit/internal/export"
	"github.com/piwi3910/SquareFit/internal/importer"
	"github.com/piwi3910/SquareFit/internal/model"
	"github.com/piwi3910/SquareFit/internal/project"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Error().Err(err).Msg("squarefit failed")
		os.Exit(1)
	}
}

// options holds the parsed command line.
type options struct {
	configPath   string
	profile      string
	profilesPath string
	output       string
	check        string
	compare      bool
	optimize     bool
	writeConfig  bool
	genetic      engine.GeneticConfig
	instanceID   int
	input        string
	overrides    func(*model.Config)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("squarefit", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := options{genetic: engine.DefaultGeneticConfig()}
	fs.StringVar(&opts.configPath, "config", project.DefaultConfigPath(), "TOML config file")
	fs.StringVar(&opts.profile, "profile", "", "named solver profile (default, fast, thorough, large-first or a custom one)")
	fs.StringVar(&opts.profilesPath, "profiles", project.DefaultProfilesPath(), "TOML file with custom profiles")
	fs.StringVar(&opts.output, "o", "", "solution output file (default stdout)")
	fs.StringVar(&opts.check, "check", "", "validate this solution file against the instance instead of solving")
	fs.BoolVar(&opts.compare, "compare", false, "run every heuristic and report their displacement")
	fs.BoolVar(&opts.optimize, "optimize", false, "search insertion orders with a genetic algorithm")
	fs.BoolVar(&opts.writeConfig, "write-config", false, "save the effective config to -config and exit")
	fs.IntVar(&opts.genetic.Generations, "generations", opts.genetic.Generations, "generations for -optimize")
	fs.IntVar(&opts.genetic.PopulationSize, "population", opts.genetic.PopulationSize, "population size for -optimize")
	fs.Int64Var(&opts.genetic.Seed, "seed", opts.genetic.Seed, "random seed for -optimize")
	fs.IntVar(&opts.instanceID, "id", 0, "instance id for CSV, Excel and DXF input")

	heuristic := fs.String("heuristic", "", "insertion order: "+heuristicNames())
	rootScale := fs.Float64("root-scale", 0, "quad-tree root size as a multiple of the instance extent")
	maxAttempts := fs.Int("max-attempts", 0, "retries per point before it stalls")
	candidates := fs.Int("candidates", 0, "projected placements tried per outline, 0 for all")
	noSanitize := fs.Bool("no-sanitize", false, "skip the buffered outline cleanup")
	tag := fs.Int("tag", 0, "tag written as the first solution line")
	outDir := fs.String("out", "", "directory for exports and reports")
	pdf := fs.Bool("pdf", false, "write a PDF layout report")
	dxf := fs.Bool("dxf", false, "write a DXF drawing")
	xlsx := fs.Bool("xlsx", false, "write an Excel workbook")
	report := fs.Bool("report", false, "write a JSON run report")
	logLevel := fs.String("log-level", "", "debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	opts.overrides = func(c *model.Config) {
		if set["heuristic"] {
			c.Solver.Heuristic = model.Heuristic(*heuristic)
		}
		if set["root-scale"] {
			c.Solver.RootScale = *rootScale
		}
		if set["max-attempts"] {
			c.Solver.MaxAttempts = *maxAttempts
		}
		if set["candidates"] {
			c.Solver.CandidatesPerOutline = *candidates
		}
		if set["no-sanitize"] {
			c.Solver.SanitizeBuffers = !*noSanitize
		}
		if set["tag"] {
			c.Solver.SolutionTag = *tag
		}
		if set["out"] {
			c.OutputDir = *outDir
		}
		if set["pdf"] {
			c.ExportPDF = *pdf
		}
		if set["dxf"] {
			c.ExportDXF = *dxf
		}
		if set["xlsx"] {
			c.ExportXLSX = *xlsx
		}
		if set["report"] {
			c.WriteJSON = *report
		}
		if set["log-level"] {
			c.LogLevel = *logLevel
		}
	}

	if set["heuristic"] && !model.Heuristic(*heuristic).Valid() {
		return options{}, fmt.Errorf("unknown heuristic %q, expected one of %s", *heuristic, heuristicNames())
	}
	if !opts.writeConfig {
		if fs.NArg() != 1 {
			fs.Usage()
			return options{}, errors.New("expected exactly one instance file")
		}
		opts.input = fs.Arg(0)
	}
	return opts, nil
}

func heuristicNames() string {
	names := make([]string, len(model.AllHeuristics))
	for i, h := range model.AllHeuristics {
		names[i] = string(h)
	}
	return strings.Join(names, ", ")
}

// loadConfig resolves the effective configuration: config file, then the
// named profile, then explicit flags.
func loadConfig(opts options) (model.Config, error) {
	cfg, err := project.LoadConfig(opts.configPath)
	if err != nil {
		return model.Config{}, err
	}
	if opts.profile != "" {
		custom, err := project.LoadCustomProfiles(opts.profilesPath)
		if err != nil {
			return model.Config{}, err
		}
		p, ok := project.FindProfile(opts.profile, custom)
		if !ok {
			return model.Config{}, fmt.Errorf("unknown profile %q", opts.profile)
		}
		cfg.Solver = p.Settings
	}
	opts.overrides(&cfg)
	cfg.Solver = cfg.Solver.Normalize()
	return cfg, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	initLogger(stderr, cfg.LogLevel)

	if opts.writeConfig {
		if err := project.SaveConfig(opts.configPath, cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		log.Info().Str("path", opts.configPath).Msg("config written")
		return nil
	}

	inst, err := loadInstance(opts.input, opts.instanceID)
	if err != nil {
		return err
	}
	log.Info().Int("instance", inst.ID).Int("points", len(inst.Points)).Str("input", opts.input).Msg("instance loaded")

	if opts.check != "" {
		return checkSolution(inst, opts.check, stdout)
	}

	settings := cfg.Solver
	var comparison []engine.ComparisonResult
	if opts.compare {
		comparison = engine.CompareHeuristics(settings, inst)
		printComparison(stderr, comparison)
		if best := engine.Best(comparison); best >= 0 {
			settings = comparison[best].Scenario.Settings
			log.Info().Str("heuristic", string(settings.Heuristic)).Msg("using best heuristic")
		}
	}

	res, solveErr := solve(settings, inst, opts)
	if solveErr != nil && !errors.Is(solveErr, engine.ErrStalled) {
		return solveErr
	}
	if solveErr != nil {
		log.Warn().Err(solveErr).Ints("stalled", res.Stalled).Msg("writing partial solution")
	}
	log.Info().
		Int("placed", res.PlacedCount()).
		Int("outlines", len(res.Outlines)).
		Float64("displacement", res.TotalDisplacement).
		Msg("solved")

	if violations := checker.Validate(inst, res.Solution); len(violations) > 0 {
		for _, msg := range checker.FormatViolations(inst, violations) {
			log.Warn().Msg(msg)
		}
	}

	if err := writeSolution(opts.output, res.Solution, stdout); err != nil {
		return err
	}

	runRecord := export.Run{ID: project.NewRunID(), Instance: inst, Settings: settings, Result: res}
	if err := writeOutputs(cfg, runRecord, comparison); err != nil {
		return err
	}
	return solveErr
}

func solve(settings model.Settings, inst model.Instance, opts options) (engine.Result, error) {
	if opts.optimize {
		log.Info().Int("generations", opts.genetic.Generations).Int("population", opts.genetic.PopulationSize).Msg("searching insertion orders")
		return engine.OptimizeOrder(settings, inst, opts.genetic)
	}
	solver := engine.New(settings).WithLogger(log.With().Str("module", "engine").Logger())
	return solver.Solve(inst)
}

// loadInstance picks the reader by file extension.
func loadInstance(path string, id int) (model.Instance, error) {
	var result importer.ImportResult
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		result = importer.ImportCSV(path)
	case ".xlsx", ".xls":
		result = importer.ImportExcel(path)
	case ".dxf":
		result = importer.ImportDXF(path)
	default:
		return importer.ReadInstanceFile(path)
	}

	for _, w := range result.Warnings {
		log.Warn().Str("input", path).Msg(w)
	}
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			log.Error().Str("input", path).Msg(e)
		}
		return model.Instance{}, fmt.Errorf("%w: %d errors in %s", importer.ErrMalformed, len(result.Errors), path)
	}
	return result.Instance(id), nil
}

func checkSolution(inst model.Instance, path string, stdout io.Writer) error {
	sol, err := importer.ReadSolutionFile(path, len(inst.Points))
	if err != nil {
		return err
	}
	violations := checker.Validate(inst, sol)
	if len(violations) == 0 {
		total, maxDist := sol.Displacement(inst)
		fmt.Fprintf(stdout, "valid: total displacement %.4f, max %.4f\n", total, maxDist)
		return nil
	}
	for _, msg := range checker.FormatViolations(inst, violations) {
		fmt.Fprintln(stdout, msg)
	}
	return fmt.Errorf("solution has %d violations", len(violations))
}

func writeSolution(path string, sol model.Solution, stdout io.Writer) error {
	if path == "" {
		return export.WriteSolution(stdout, sol)
	}
	if err := export.WriteSolutionFile(path, sol); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("solution written")
	return nil
}

func writeOutputs(cfg model.Config, run export.Run, comparison []engine.ComparisonResult) error {
	if !cfg.ExportPDF && !cfg.ExportDXF && !cfg.ExportXLSX && !cfg.WriteJSON {
		return nil
	}
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	base := filepath.Join(cfg.OutputDir, fmt.Sprintf("instance-%d-%s", run.Instance.ID, run.ID))

	outputs := []struct {
		enabled bool
		ext     string
		write   func(string) error
	}{
		{cfg.ExportPDF, ".pdf", func(p string) error { return export.ExportPDF(p, run) }},
		{cfg.ExportDXF, ".dxf", func(p string) error { return export.ExportDXF(p, run) }},
		{cfg.ExportXLSX, ".xlsx", func(p string) error { return export.ExportXLSX(p, run) }},
		{cfg.WriteJSON, ".json", func(p string) error {
			report := project.NewReport(run.ID, run.Instance, run.Settings, run.Result)
			report.AddComparison(comparison)
			return project.SaveReport(p, report)
		}},
	}
	for _, o := range outputs {
		if !o.enabled {
			continue
		}
		path := base + o.ext
		if err := o.write(path); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		log.Info().Str("path", path).Msg("output written")
	}
	return nil
}

func printComparison(w io.Writer, results []engine.ComparisonResult) {
	fmt.Fprintf(w, "%-24s %8s %10s %12s %10s %8s\n", "heuristic", "placed", "unplaced", "displacement", "max", "merges")
	for _, r := range results {
		fmt.Fprintf(w, "%-24s %8d %10d %12.3f %10.3f %8d\n",
			r.Scenario.Name, r.PlacedCount, r.UnplacedCount, r.TotalDisplacement, r.MaxDisplacement, r.Merges)
	}
}
