package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/slopstudio/internal/config"
	"github.com/kikiluvv/slopstudio/internal/export"
	"github.com/kikiluvv/slopstudio/internal/ffmpeg"
	"github.com/kikiluvv/slopstudio/internal/gui"
	"github.com/kikiluvv/slopstudio/internal/logging"
	"github.com/kikiluvv/slopstudio/internal/preview"
	"github.com/kikiluvv/slopstudio/internal/timeline"
	"github.com/kikiluvv/slopstudio/pkg/util"
)

var (
	cfgFile string
	verbose bool
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "slopstudio",
	Short: "slopstudio - layered short-video editor",
	Long:  "A layer-based timeline editor that composites text, images and boxes into vertical videos via ffmpeg.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(encodersCmd)
	rootCmd.AddCommand(configCmd)

	renderCmd.Flags().StringP("out", "o", "export.mp4", "output video path")
	renderCmd.Flags().String("quality", "", "quality tier: high, medium, low")
	renderCmd.Flags().String("encoder", "", "preferred encoder (default: auto-detect)")
	renderCmd.Flags().String("music", "", "background music file")
	renderCmd.Flags().String("voice", "", "voice-over file")
	renderCmd.Flags().String("background", "", "background video clip")
}

var editCmd = &cobra.Command{
	Use:   "edit [project file]",
	Short: "Open the editor window",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		tl := timeline.New(log.Logger)
		if len(args) == 1 {
			if err := tl.LoadProject(args[0]); err != nil {
				return err
			}
		}

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}
		encoder, err := pickEncoder(cmd.Context(), exec, cfg.Export.PreferredEncoder)
		if err != nil {
			return err
		}

		editor := &gui.Editor{
			Config:   cfg,
			Timeline: tl,
			Preview:  preview.NewRenderer(log.Logger, cfg.Canvas.Width, cfg.Canvas.Height),
			Export:   export.NewRenderer(log.Logger, exec),
			Encoder:  encoder,
		}
		editor.Run()
		return nil
	},
}

var renderCmd = &cobra.Command{
	Use:   "render [project file]",
	Short: "Render a project file to video without the GUI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		tl := timeline.New(log.Logger)
		if err := tl.LoadProject(args[0]); err != nil {
			return err
		}

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		preferred, _ := cmd.Flags().GetString("encoder")
		if preferred == "" {
			preferred = cfg.Export.PreferredEncoder
		}
		encoder, err := pickEncoder(cmd.Context(), exec, preferred)
		if err != nil {
			return err
		}

		quality, _ := cmd.Flags().GetString("quality")
		if quality == "" {
			quality = cfg.Export.Quality
		}
		out, _ := cmd.Flags().GetString("out")
		music, _ := cmd.Flags().GetString("music")
		voice, _ := cmd.Flags().GetString("voice")
		background, _ := cmd.Flags().GetString("background")

		req := export.Request{
			Snapshot: tl.Export(),
			Options: export.Options{
				OutputPath:      out,
				Width:           cfg.Canvas.Width,
				Height:          cfg.Canvas.Height,
				FPS:             cfg.Canvas.FPS,
				Quality:         export.Quality(quality),
				Encoder:         encoder,
				BackgroundVideo: background,
				BackgroundMusic: music,
				MusicVolume:     cfg.Export.MusicVolume,
				VoiceOver:       voice,
				VoiceVolume:     cfg.Export.VoiceVolume,
			},
			Progress: func(fraction float64, status string) {
				log.Info().Float64("progress", fraction).Msg(status)
			},
		}

		renderer := export.NewRenderer(log.Logger, exec)
		done := make(chan error, 1)
		if !renderer.Render(cmd.Context(), req, done) {
			return fmt.Errorf("render already in progress")
		}
		if err := <-done; err != nil {
			return err
		}

		log.Info().Str("output", out).Msg("render complete")
		return nil
	},
}

var probeCmd = &cobra.Command{
	Use:   "probe [media file]",
	Short: "Show metadata for a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}
		info, err := exec.Probe(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		log.Info().
			Str("file", info.FilePath).
			Str("duration", util.FormatDuration(info.Duration)).
			Int("width", info.Width).
			Int("height", info.Height).
			Float64("fps", info.FPS).
			Str("video_codec", info.VideoCodec).
			Bool("has_audio", info.HasAudio).
			Msg("probe complete")
		return nil
	},
}

var encodersCmd = &cobra.Command{
	Use:   "encoders",
	Short: "List available h264 encoders",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())

		exec, err := ffmpeg.New(log.Logger, cfg.FFmpeg.BinaryPath, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}
		encoders, err := exec.DetectEncoders(cmd.Context())
		if err != nil {
			return err
		}
		for _, enc := range encoders {
			fmt.Println(enc)
		}
		fmt.Println("selected:", ffmpeg.SelectEncoder(encoders, cfg.Export.PreferredEncoder))
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "./config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		cfg := config.FromContext(cmd.Context())
		if err := cfg.Save(path); err != nil {
			return err
		}
		log.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

// pickEncoder resolves the concrete encoder once at startup so exports
// never probe mid-render.
func pickEncoder(ctx context.Context, exec *ffmpeg.Executor, preferred string) (string, error) {
	encoders, err := exec.DetectEncoders(ctx)
	if err != nil {
		return "", fmt.Errorf("detect encoders: %w", err)
	}
	selected := ffmpeg.SelectEncoder(encoders, preferred)
	log.Debug().Str("encoder", selected).Msg("encoder selected")
	return selected, nil
}
