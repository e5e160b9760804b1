package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mj1618/arena-access/internal/output"
	"github.com/mj1618/arena-access/internal/platform/replay"
	"github.com/mj1618/arena-access/internal/session"
)

var replayCmd = &cobra.Command{
	Use:   "replay <scenario.yaml>",
	Short: "Play a recorded scenario and print what was announced",
	Long: `Play every step of a scenario file through the navigators and print the
result: per-step announcements, the full transcript, the actions sent to the
game, and the final state.

Examples:
  arena-access replay testdata/discard.yaml
  arena-access replay login.yaml --format text
  arena-access replay login.yaml --format json --transcript-only`,
	Args: cobra.ExactArgs(1),
	RunE: runReplay,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("transcript-only", false, "Print only the announcement transcript")
	replayCmd.Flags().Bool("verbose-speech", false, "Include verbose announcements")
	replayCmd.Flags().Duration("frame-time", session.DefaultFrameTime, "Clock advance per frame")
	replayCmd.Flags().Bool("color", false, "Colorize --format text output")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if verbose, _ := cmd.Flags().GetBool("verbose-speech"); verbose {
		cfg.Speech.Verbose = true
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Close()

	sc, err := replay.Load(args[0])
	if err != nil {
		return err
	}
	frameTime, _ := cmd.Flags().GetDuration("frame-time")
	sess, err := session.New(sc, session.Options{Config: cfg, Log: log, FrameTime: frameTime})
	if err != nil {
		return err
	}

	res, runErr := sess.Run()
	transcriptOnly, _ := cmd.Flags().GetBool("transcript-only")
	color, _ := cmd.Flags().GetBool("color")

	out := cmd.OutOrStdout()
	switch {
	case output.OutputFormat == output.FormatText:
		err = printTextResult(out, res, transcriptOnly, color)
	case transcriptOnly:
		err = output.Fprint(out, res.Transcript)
	default:
		err = output.Fprint(out, res)
	}
	if runErr != nil {
		return runErr
	}
	return err
}

// printTextResult renders the run as a terminal transcript, one heading per step.
func printTextResult(w io.Writer, res session.Result, transcriptOnly, color bool) error {
	style := output.PlainTranscriptStyle()
	if color {
		style = output.DefaultTranscriptStyle()
	}
	if transcriptOnly {
		return output.FprintTranscript(w, res.Transcript, style)
	}
	for _, st := range res.Steps {
		title := fmt.Sprintf("step %d: %s", st.Step, st.Scene)
		if len(st.Keys) > 0 {
			title += fmt.Sprintf(" keys=%v", st.Keys)
		}
		if len(st.Held) > 0 {
			title += fmt.Sprintf(" held=%v", st.Held)
		}
		if st.Note != "" {
			title += " (" + st.Note + ")"
		}
		if _, err := fmt.Fprintln(w, output.RenderHeading(title, style)); err != nil {
			return err
		}
		if err := output.FprintTranscript(w, st.Announcements, style); err != nil {
			return err
		}
	}
	return nil
}
