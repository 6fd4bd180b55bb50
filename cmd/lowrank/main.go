package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/avasquez/lowrank/internal/config"
	"github.com/avasquez/lowrank/internal/criteria"
	"github.com/avasquez/lowrank/internal/dataset"
	"github.com/avasquez/lowrank/internal/shrink"
	"github.com/avasquez/lowrank/internal/storage"
	"github.com/avasquez/lowrank/internal/svht"
	"github.com/avasquez/lowrank/internal/viz"
)

var (
	dataDir    string
	configFile string
	knownNoise bool
	overwrite  bool
	outPath    string
	lossName   string
	rows       int
	cols       int
	params     []int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lowrank",
		Short: "optimal singular-value shrinkage toolkit",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	denoiseCmd := &cobra.Command{
		Use:   "denoise [input.csv]",
		Short: "denoise a matrix at the optimal threshold",
		Args:  cobra.ExactArgs(1),
		RunE:  runDenoise,
	}
	denoiseCmd.Flags().BoolVar(&knownNoise, "known-noise", false, "assume the noise level is already normalized")
	denoiseCmd.Flags().BoolVar(&overwrite, "overwrite", false, "write the denoised matrix back over the input file")
	denoiseCmd.Flags().StringVar(&outPath, "out", "", "also write the denoised matrix to this path")
	denoiseCmd.Flags().StringVar(&lossName, "loss", config.DefaultLoss, "loss for the criteria scores (sse or sad)")
	denoiseCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	thresholdCmd := &cobra.Command{
		Use:   "threshold",
		Short: "print the optimal threshold coefficient",
		RunE:  runThreshold,
	}
	thresholdCmd.Flags().IntVar(&rows, "rows", 0, "row count (must not exceed --cols)")
	thresholdCmd.Flags().IntVar(&cols, "cols", 0, "column count")
	thresholdCmd.Flags().BoolVar(&knownNoise, "known-noise", false, "assume the noise level is already normalized")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [input.csv]",
		Short: "plot the singular value spectrum",
		Args:  cobra.ExactArgs(1),
		RunE:  runSpectrum,
	}

	scoreCmd := &cobra.Command{
		Use:   "score [observed.csv] [estimated.csv]",
		Short: "information criteria for a model estimate",
		Args:  cobra.ExactArgs(2),
		RunE:  runScore,
	}
	scoreCmd.Flags().IntSliceVarP(&params, "params", "k", []int{1}, "free parameter counts to score")
	scoreCmd.Flags().StringVar(&lossName, "loss", config.DefaultLoss, "loss (sse or sad)")
	scoreCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list denoising runs",
		RunE:  runList,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	exploreCmd := &cobra.Command{
		Use:   "explore [input.csv]",
		Short: "interactively explore the spectrum and cutoff",
		Args:  cobra.ExactArgs(1),
		RunE:  runExplore,
	}

	rootCmd.AddCommand(denoiseCmd, thresholdCmd, spectrumCmd, scoreCmd, listCmd, showCmd, exploreCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// applyConfig loads the config file if given and fills in values the user
// did not set explicitly on the command line.
func applyConfig(cmd *cobra.Command) error {
	if configFile == "" {
		return nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cmd.Flags().Changed("loss") {
		lossName = cfg.Loss
	}
	if f := cmd.Flags().Lookup("known-noise"); f != nil && !f.Changed {
		knownNoise = cfg.KnownNoise
	}
	if !cmd.Root().PersistentFlags().Changed("data") {
		dataDir = cfg.DataDir
	}
	return nil
}

func runDenoise(cmd *cobra.Command, args []string) error {
	if err := applyConfig(cmd); err != nil {
		return err
	}
	loss, err := config.LossByName(lossName)
	if err != nil {
		return err
	}

	input := args[0]
	x, err := dataset.Load(input)
	if err != nil {
		return err
	}

	sp, err := shrink.Analyze(x)
	if err != nil {
		return err
	}

	var denoised *mat.Dense
	if knownNoise {
		r, c := x.Dims()
		m, n := r, c
		if m > n {
			m, n = n, m
		}
		tau, err := svht.Threshold(m, n, true)
		if err != nil {
			return err
		}
		cutoff := tau * (sp.Cutoff / sp.Threshold)
		sp.Threshold = tau
		sp.Cutoff = cutoff
		denoised, sp.Kept, err = shrink.Truncate(x, cutoff)
		if err != nil {
			return err
		}
	} else {
		denoised, err = shrink.Denoise(x)
		if err != nil {
			return err
		}
	}

	scores, err := scoreReconstruction(sp.Kept, x, denoised, loss)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(input, sp, scores, denoised)
	if err != nil {
		return err
	}

	r, c := x.Dims()
	fmt.Printf("denoised %s (%dx%d)\n", input, r, c)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("threshold: %.6f\n", sp.Threshold)
	fmt.Printf("cutoff: %.6f\n", sp.Cutoff)
	fmt.Printf("kept rank: %d of %d\n", sp.Kept, len(sp.Values))
	fmt.Println("\nscores:")
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, scores[name])
	}

	if outPath != "" {
		if err := dataset.Save(outPath, denoised); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outPath)
	}
	if overwrite {
		if err := dataset.Save(input, denoised); err != nil {
			return err
		}
		fmt.Printf("overwrote %s\n", input)
	}

	return nil
}

// scoreReconstruction rates the denoised estimate against the observed data,
// using the kept rank as the free parameter count. A zero loss (perfect
// reconstruction) cannot be scored; the criteria are skipped in that case.
func scoreReconstruction(kept int, obs, est mat.Matrix, loss criteria.Loss) (map[string]float64, error) {
	if loss(obs, est) <= 0 {
		return nil, nil
	}

	aic, err := criteria.AIC(kept, obs, est, loss)
	if err != nil {
		return nil, err
	}
	aicc, err := criteria.AICc(kept, obs, est, loss)
	if err != nil {
		return nil, err
	}
	bic, err := criteria.BIC(kept, obs, est, loss)
	if err != nil {
		return nil, err
	}

	scores := map[string]float64{"aic": aic, "bic": bic}
	if !math.IsInf(aicc, 0) && !math.IsNaN(aicc) {
		scores["aicc"] = aicc
	}
	return scores, nil
}

func runThreshold(cmd *cobra.Command, args []string) error {
	tau, err := svht.Threshold(rows, cols, knownNoise)
	if err != nil {
		return err
	}
	fmt.Printf("%.9f\n", tau)
	return nil
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	x, err := dataset.Load(args[0])
	if err != nil {
		return err
	}

	sp, err := shrink.Analyze(x)
	if err != nil {
		return err
	}

	r, c := x.Dims()
	fmt.Printf("matrix: %s (%dx%d)\n\n", args[0], r, c)

	graph := asciigraph.Plot(sp.Values,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption("singular value spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	// ascending copy for the quantile summary
	asc := make([]float64, len(sp.Values))
	for i, v := range sp.Values {
		asc[len(asc)-1-i] = v
	}

	fmt.Printf("threshold: %.6f\n", sp.Threshold)
	fmt.Printf("cutoff: %.6f\n", sp.Cutoff)
	fmt.Printf("kept rank: %d of %d\n", sp.Kept, len(sp.Values))
	fmt.Printf("energy kept: %.2f%%\n", 100*sp.EnergyFraction(sp.Kept))
	fmt.Printf("quartiles: %.4f / %.4f / %.4f\n",
		stat.Quantile(0.25, stat.Empirical, asc, nil),
		stat.Quantile(0.5, stat.Empirical, asc, nil),
		stat.Quantile(0.75, stat.Empirical, asc, nil),
	)

	return nil
}

func runScore(cmd *cobra.Command, args []string) error {
	if err := applyConfig(cmd); err != nil {
		return err
	}
	loss, err := config.LossByName(lossName)
	if err != nil {
		return err
	}

	obs, err := dataset.Load(args[0])
	if err != nil {
		return err
	}
	est, err := dataset.Load(args[1])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "K\tAIC\tAICC\tBIC")

	for _, k := range params {
		aic, err := criteria.AIC(k, obs, est, loss)
		if err != nil {
			return err
		}
		aicc, err := criteria.AICc(k, obs, est, loss)
		if err != nil {
			return err
		}
		bic, err := criteria.BIC(k, obs, est, loss)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\n", k, aic, aicc, bic)
	}

	return w.Flush()
}

func runList(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tTIME\tDIMS\tKEPT\tCUTOFF")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\t%.4f\n",
			run.ID,
			run.Source,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows,
			run.Cols,
			run.Kept,
			run.Cutoff,
		)
	}

	return w.Flush()
}

func runShow(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func runExplore(cmd *cobra.Command, args []string) error {
	x, err := dataset.Load(args[0])
	if err != nil {
		return err
	}

	e, err := viz.NewExplorer(args[0], x)
	if err != nil {
		return err
	}

	p := tea.NewProgram(e)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
