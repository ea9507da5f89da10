package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/dicesim/internal/config"
	"github.com/san-kum/dicesim/internal/dice"
	"github.com/san-kum/dicesim/internal/gui"
	"github.com/san-kum/dicesim/internal/metrics"
	"github.com/san-kum/dicesim/internal/sim"
	"github.com/san-kum/dicesim/internal/storage"
	"github.com/san-kum/dicesim/internal/throw"
	"github.com/san-kum/dicesim/internal/tui"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	preset     string
	verbose    bool

	seed     int64
	count    int
	faces    int
	throws   int
	save     bool
	jsonPath string
	sound    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "dicesim",
		Short: "physically simulated dice with chosen outcomes",
		RunE:  runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".dicesim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log simulation events to stderr")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	rootCmd.PersistentFlags().IntVar(&count, "count", 1, "number of dice")
	rootCmd.PersistentFlags().IntVar(&faces, "type", 20, "die type by face count (4, 6, 8, 10, 12, 20)")
	rootCmd.Flags().BoolVar(&sound, "sound", false, "play clatter sounds")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the 3d arena window",
		RunE:  runGUI,
	}
	guiCmd.Flags().BoolVar(&sound, "sound", false, "play clatter sounds")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the arena in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			// log lines would tear the alt screen
			return tui.Run(cfg, newLogger(io.Discard))
		},
	}

	rollCmd := &cobra.Command{
		Use:   "roll",
		Short: "throw headless and report the results",
		RunE:  runRoll,
	}
	rollCmd.Flags().IntVar(&throws, "throws", 1, "number of independent throws")
	rollCmd.Flags().BoolVar(&save, "save", false, "store the roll under the data directory")
	rollCmd.Flags().StringVar(&jsonPath, "json", "", "write results to a JSON file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored rolls",
		RunE:  listRolls,
	}

	showCmd := &cobra.Command{
		Use:   "show [roll_id]",
		Short: "show a stored roll",
		Args:  cobra.ExactArgs(1),
		RunE:  showRoll,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump-config [path]",
		Short: "write the effective config as yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := config.Save(args[0], cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", args[0])
			return nil
		},
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, rollCmd, listCmd, showCmd, presetsCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(w io.Writer) *log.Logger {
	return log.New(w, "dicesim: ", log.Ltime)
}

func cmdLogger() *log.Logger {
	if verbose {
		return newLogger(os.Stderr)
	}
	return newLogger(io.Discard)
}

// loadConfig starts from the preset (or defaults), layers the config file on
// top and finally applies any flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("count") {
		cfg.Dice.Count = count
	}
	if flags.Changed("type") {
		idx, err := typeIndex(faces)
		if err != nil {
			return nil, err
		}
		cfg.Dice.TypeIndex = idx
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func typeIndex(faceCount int) (int, error) {
	for i, f := range dice.FaceCounts {
		if f == faceCount {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unsupported die type d%d (available: %v)", faceCount, dice.FaceCounts)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cfg, gui.Options{Sound: sound}, cmdLogger())
}

func runRoll(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if throws < 1 {
		return fmt.Errorf("throws must be at least 1, got %d", throws)
	}

	seedStart := cfg.Seed
	if seedStart == 0 {
		if seedStart, err = throw.NewSeed(); err != nil {
			return err
		}
	}

	newMetrics := func() []sim.Metric {
		return []sim.Metric{metrics.NewKineticEnergy(), metrics.NewMeanSpeed(), metrics.NewSettleTime()}
	}

	dieFaces := dice.FaceCounts[cfg.Dice.TypeIndex]
	cmdLogger().Printf("rolling %d x d%d, %d throws from seed %d", cfg.Dice.Count, dieFaces, throws, seedStart)

	start := time.Now()
	results, err := sim.NewEnsemble(cfg, throws, seedStart, newMetrics).Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	tally := metrics.NewTally()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "THROW\tSEED\tTARGET\tSHOWING\tSETTLED\tTIME")
	for i, r := range results {
		tally.Add(r.Values...)
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\t%v\t%.2fs\n",
			i,
			r.Seed,
			joinInts(r.Targets),
			joinInts(r.Values),
			r.Settled,
			r.Time,
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ncompleted in %v, mean %.2f over %d dice\n", elapsed, tally.Mean(), tally.Total())
	if throws > 1 {
		printHistogram(tally.Histogram(dieFaces), dieFaces)
	}

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		rollID, err := st.Save(storage.RollMetadata{
			Preset:    preset,
			SeedStart: seedStart,
			Dt:        cfg.Physics.Dt,
			Count:     cfg.Dice.Count,
			Faces:     dieFaces,
			Metrics:   meanMetrics(results),
		}, results)
		if err != nil {
			return err
		}
		fmt.Printf("roll id: %s\n", rollID)
	}

	if jsonPath != "" {
		data := storage.ExportData{
			Preset: preset,
			Count:  cfg.Dice.Count,
			Faces:  dieFaces,
			Dt:     cfg.Physics.Dt,
			Throws: results,
		}
		if err := storage.ExportJSON(jsonPath, data); err != nil {
			return err
		}
		fmt.Printf("exported to %s\n", jsonPath)
	}

	return nil
}

// meanMetrics averages every metric across results.
func meanMetrics(results []*sim.Result) map[string]float64 {
	out := make(map[string]float64)
	if len(results) == 0 {
		return out
	}
	for _, r := range results {
		for name, v := range r.Metrics {
			out[name] += v
		}
	}
	for name := range out {
		out[name] /= float64(len(results))
	}
	return out
}

func printHistogram(hist []float64, dieFaces int) {
	graph := asciigraph.Plot(hist,
		asciigraph.Height(8),
		asciigraph.Width(dieFaces*3),
		asciigraph.Caption(fmt.Sprintf("value counts, 1..%d", dieFaces)),
	)
	fmt.Println()
	fmt.Println(graph)
}

func listRolls(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rolls, err := st.List()
	if err != nil {
		return err
	}

	if len(rolls) == 0 {
		fmt.Println("no rolls found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDICE\tTHROWS\tMATCHED")

	for _, roll := range rolls {
		name := roll.Preset
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%dxd%d\t%d\t%d/%d\n",
			roll.ID,
			name,
			roll.Timestamp.Format("2006-01-02 15:04:05"),
			roll.Count,
			roll.Faces,
			roll.Throws,
			roll.Matched,
			roll.Throws*roll.Count,
		)
	}

	return w.Flush()
}

func showRoll(cmd *cobra.Command, args []string) error {
	rollID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(rollID)
	if err != nil {
		return err
	}
	rows, err := st.LoadThrows(rollID)
	if err != nil {
		return err
	}

	fmt.Printf("roll %s: %d x d%d, %d throws from seed %d\n", meta.ID, meta.Count, meta.Faces, meta.Throws, meta.SeedStart)

	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.4f\n", name, meta.Metrics[name])
	}

	tally := metrics.NewTally()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nTHROW\tDIE\tTARGET\tVALUE")
	for _, row := range rows {
		tally.Add(row.Value)
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", row.Throw, row.Die, row.Target, row.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if meta.Throws > 1 {
		printHistogram(tally.Histogram(meta.Faces), meta.Faces)
	}
	return nil
}

func joinInts(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, " ")
}
