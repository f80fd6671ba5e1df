package render

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/smcclab/video-stitcher/internal/catalog"
	"github.com/smcclab/video-stitcher/internal/ffmpeg"
	"github.com/smcclab/video-stitcher/internal/fileutil"
	"github.com/smcclab/video-stitcher/internal/logging"
	"github.com/smcclab/video-stitcher/internal/media/loudness"
)

// ProcessItem re-encodes one clip into the tmp directory with normalized
// loudness and the title burned in. When the processed output is already
// newer than its input the encode is skipped and the existing path returned.
func (r *Renderer) ProcessItem(ctx context.Context, item catalog.ResolvedItem) (string, bool, error) {
	log := logging.WithComponent(r.logger, "process").With(
		logging.String(logging.FieldItem, item.ID),
	)

	stem := strings.TrimSuffix(filepath.Base(item.Path), filepath.Ext(item.Path))
	outputPath := filepath.Join(r.cfg.Paths.TmpDir, stem+"-processed"+r.cfg.Encode.OutputExt)

	inputMtime, ok := fileutil.ModTime(item.Path)
	if !ok {
		return "", false, fmt.Errorf("stat input %s: file disappeared", item.Path)
	}
	if !r.force && fileutil.NewerThan(outputPath, inputMtime) {
		log.Debug("skipping processed clip, output is fresh", logging.String(logging.FieldPath, outputPath))
		return outputPath, true, nil
	}

	title := item.DisplayTitle()
	log.Info("processing clip",
		logging.String(logging.FieldPath, item.Path),
		logging.String("title", title),
	)

	targets := r.loudnessTargets()
	audioFilter := targets.MeasureFilter()
	if r.dryRun {
		log.Info("dry run, skipping loudness measurement")
	} else {
		params, err := loudness.Measure(ctx, r.cfg.FFmpegBinary(), item.Path, targets)
		if err != nil {
			return "", false, err
		}
		if params.Silent() {
			log.Warn("silent clip, loudness left untouched", logging.String(logging.FieldPath, item.Path))
		}
		audioFilter = targets.ApplyFilter(params)
	}

	canvas := ffmpeg.Canvas{
		Width:     r.cfg.Encode.Width,
		Height:    r.cfg.Encode.Height,
		Framerate: r.cfg.Encode.Framerate,
		FontSize:  r.cfg.Encode.FontSize,
		Font:      r.cfg.Encode.Font,
		PadColor:  r.cfg.Encode.PadColor,
	}

	args := []string{
		"-i", item.Path,
		// Large buffer works around "Too many packets buffered for output
		// stream" on high-bitrate inputs.
		"-max_muxing_queue_size", "99999",
		"-af", audioFilter,
		"-filter_complex", canvas.TitleFilter(title),
		"-y", outputPath,
	}
	if err := r.runner.Run(ctx, args...); err != nil {
		return "", false, fmt.Errorf("process %s: %w", item.Path, err)
	}
	return outputPath, false, nil
}

func (r *Renderer) loudnessTargets() loudness.Targets {
	return loudness.Targets{
		Integrated: r.cfg.Loudnorm.Integrated,
		Range:      r.cfg.Loudnorm.Range,
		TruePeak:   r.cfg.Loudnorm.TruePeak,
	}
}
