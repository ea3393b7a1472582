package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"canvasmode/core"
	"canvasmode/genmode"
	"canvasmode/logging"
	"canvasmode/patchmatch"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	cmd, closeApp := newRootCmd(stderr, nil)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	closeApp()
	if err == nil {
		return core.ExitCodeSuccess
	}

	code := core.ExitCodeFor(err)
	if errors.Is(err, errSelftestFailed) {
		code = core.ExitCodeSelftestFailed
	}

	if errCode := core.GetErrorCode(err); errCode != "" {
		fmt.Fprintf(stderr, "Error [%s]: %v (exit %d: %s)\n", errCode, err, code, core.ExitCodeName(code))
	} else {
		fmt.Fprintf(stderr, "Error: %v (exit %d: %s)\n", err, code, core.ExitCodeName(code))
	}
	return code
}

// newRootCmd builds the command tree. Logs go to logOutput; probe selects the
// patchmatch backend and may be nil. The returned func flushes the logger and
// must be called once Execute returns, whether or not it failed.
func newRootCmd(logOutput io.Writer, probe patchmatch.Probe) (*cobra.Command, func()) {
	var opts globalOptions
	var a *app

	rootCmd := &cobra.Command{
		Use:           "canvasmode",
		Short:         "Choose the generation mode for a canvas image and mask",
		Version:       core.VersionInfo(),
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			a, err = newApp(opts, logOutput, probe)
			return err
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	flags.BoolVar(&opts.dev, "dev", false, "Human-readable development logging")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to a rotating file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newClassifyCmd(func() *app { return a }),
		newSelftestCmd(func() *app { return a }),
	)
	return rootCmd, func() { a.close() }
}

func newClassifyCmd(getApp func() *app) *cobra.Command {
	var prefillPath string

	cmd := &cobra.Command{
		Use:   "classify IMAGE MASK",
		Short: "Print the generation mode for an image and mask",
		Long: `Print the generation mode for an image and mask.

The mask is white where the image is kept and black where it should change.
Modes: txt2img, outpainting, inpainting, img2img.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return classifyHandler(cmd.OutOrStdout(), getApp(), args[0], args[1], prefillPath)
		},
	}

	cmd.Flags().StringVar(&prefillPath, "prefill", "", "When the mode is inpainting and patchmatch is available, write a prefilled PNG here")
	return cmd
}

func newSelftestCmd(getApp func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Classify generated reference images and report mismatches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runSelftest(getApp(), cmd.OutOrStdout())
			return err
		},
	}
}

// classifyHandler loads both files, classifies them and prints the mode.
func classifyHandler(out io.Writer, a *app, imagePath, maskPath, prefillPath string) error {
	runID := uuid.New().String()
	logger := a.logger.With(zap.String("run_id", runID))
	start := time.Now()

	img, err := genmode.Load(imagePath)
	if err != nil {
		logger.Error("Failed to load image", zap.String("path", imagePath), zap.Error(err))
		return err
	}
	mask, err := genmode.Load(maskPath)
	if err != nil {
		logger.Error("Failed to load mask", zap.String("path", maskPath), zap.Error(err))
		return err
	}

	res, err := a.classifier.Evaluate(img, mask)
	if err != nil {
		logger.Error("Classification failed", zap.Error(err))
		return err
	}

	logger.Info("Classification complete", logging.ClassificationFields(logging.ClassificationRecord{
		RunID:            runID,
		ImagePath:        imagePath,
		MaskPath:         maskPath,
		Mode:             res.Mode.String(),
		HasTransparency:  res.HasTransparency,
		FullyTransparent: res.FullyTransparent,
		MaskHasContent:   res.MaskHasContent,
		Width:            res.Width,
		Height:           res.Height,
		Duration:         time.Since(start),
	}))

	if prefillPath != "" {
		if err := prefill(logger, a, img, mask, res.Mode, prefillPath); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, res.Mode)
	return nil
}

// prefill runs patchmatch over the masked region for inpainting jobs.
// Other modes and a missing backend are logged and skipped.
func prefill(logger *logging.Logger, a *app, img, mask *genmode.Raster, mode genmode.Mode, path string) error {
	if mode != genmode.ModeInpainting {
		logger.Info("Prefill skipped", zap.String("reason", "mode is not inpainting"), zap.Stringer("mode", mode))
		return nil
	}
	if !a.patchmatch.Available() {
		logger.Info("Prefill skipped", zap.String("reason", "patchmatch unavailable"))
		return nil
	}

	interp, err := a.classifier.Resample().Interpolator()
	if err != nil {
		return err
	}
	fitted := genmode.PrepareMask(mask.Image, img.Bounds().Size(), interp)

	filled, err := a.patchmatch.Inpaint(genmode.ToNRGBA(img.Image), fitted, patchmatch.DefaultOptions())
	if err != nil {
		logger.Error("Patchmatch failed", zap.Error(err))
		return fmt.Errorf("patchmatch: %w", err)
	}
	if filled == nil {
		logger.Info("Prefill skipped", zap.String("reason", "patchmatch returned no image"))
		return nil
	}

	data, err := genmode.EncodePNG(filled)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write prefill: %w", err)
	}
	logger.Info("Prefill written", zap.String("path", path))
	return nil
}
