package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/smcclab/video-stitcher/internal/catalog"
	"github.com/smcclab/video-stitcher/internal/chapters"
	"github.com/smcclab/video-stitcher/internal/ffmpeg"
	"github.com/smcclab/video-stitcher/internal/fileutil"
	"github.com/smcclab/video-stitcher/internal/logging"
	"github.com/smcclab/video-stitcher/internal/media/ffprobe"
)

// CollateOutcome describes what Collate produced for one session.
type CollateOutcome struct {
	OutputPath string
	Items      int
	// Fresh is true when the existing output was newer than every processed
	// input and no concat ran.
	Fresh bool
}

// Collate processes every resolved item of a session and concatenates the
// results into a single chaptered output file. Items that fail to process are
// dropped; the session renders from whatever remains.
func (r *Renderer) Collate(ctx context.Context, session string, items []catalog.ResolvedItem) (CollateOutcome, error) {
	log := logging.WithComponent(r.logger, "collate").With(
		logging.String(logging.FieldSession, session),
	)

	name := "video_" + session
	var (
		processed     []string
		chapterList   chapters.List
		maxInputMtime time.Time
	)

	for _, item := range items {
		processedPath, skipped, err := r.ProcessItem(ctx, item)
		if err != nil {
			log.Error("dropping item after processing failure",
				logging.String(logging.FieldItem, item.ID),
				logging.Error(err),
			)
			continue
		}
		mtime, ok := fileutil.ModTime(processedPath)
		if r.dryRun && !skipped {
			// A real run would have re-encoded this clip just now, so the
			// stale intermediate's mtime must not feed the freshness check.
			mtime, ok = time.Now(), true
		}
		if ok && mtime.After(maxInputMtime) {
			maxInputMtime = mtime
		}

		// Chapter length comes from the source clip; the processed copy has
		// the same duration but may not exist yet on a dry run.
		duration, err := r.probeDuration(ctx, item.Path)
		if err != nil {
			log.Error("dropping item after duration probe failure",
				logging.String(logging.FieldItem, item.ID),
				logging.Error(err),
			)
			continue
		}
		chapterList.Append(item.DisplayTitle(), duration)
		processed = append(processed, processedPath)
		if skipped {
			log.Debug("reusing processed clip", logging.String(logging.FieldPath, processedPath))
		}
	}

	if len(processed) == 0 {
		return CollateOutcome{}, fmt.Errorf("%w: session %s", ErrNoRenderableItems, session)
	}

	for _, chapter := range chapterList.Chapters() {
		log.Debug("chapter laid out",
			logging.String("title", chapter.Title),
			logging.Int64("start_ms", chapter.Start),
			logging.Int64("end_ms", chapter.End),
		)
	}

	metadataPath := filepath.Join(r.cfg.Paths.TmpDir, name+"-metadata.ini")
	if err := os.WriteFile(metadataPath, chapterList.Marshal(), 0o644); err != nil {
		return CollateOutcome{}, fmt.Errorf("write chapter metadata: %w", err)
	}

	outputPath := filepath.Join(r.cfg.Paths.OutputDir, name+r.cfg.Encode.OutputExt)
	outcome := CollateOutcome{OutputPath: outputPath, Items: len(processed)}

	if !r.force && fileutil.NewerThan(outputPath, maxInputMtime) {
		log.Info("skipping collation, output is fresh", logging.String(logging.FieldPath, outputPath))
		outcome.Fresh = true
		return outcome, nil
	}

	args := make([]string, 0, 2*len(processed)+12)
	for _, path := range processed {
		args = append(args, "-i", path)
	}
	args = append(args,
		"-i", metadataPath,
		"-map_metadata", fmt.Sprintf("%d", len(processed)),
		"-filter_complex", ffmpeg.ConcatFilter(len(processed)),
		"-map", "[v]",
		"-map", "[a]",
	)

	// Concat lands in the tmp directory first so a failed run never leaves a
	// partial file at the final output path.
	tmpOutputPath := filepath.Join(r.cfg.Paths.TmpDir, name+r.cfg.Encode.OutputExt)
	args = append(args, "-y", tmpOutputPath)

	if err := r.runner.Run(ctx, args...); err != nil {
		return CollateOutcome{}, fmt.Errorf("collate %s: %w", session, err)
	}
	if r.dryRun {
		return outcome, nil
	}
	if err := fileutil.MoveFile(tmpOutputPath, outputPath); err != nil {
		return CollateOutcome{}, err
	}

	log.Info("collated session video",
		logging.String(logging.FieldPath, outputPath),
		logging.Int("chapters", chapterList.Len()),
	)
	return outcome, nil
}

func (r *Renderer) probeDuration(ctx context.Context, path string) (float64, error) {
	result, err := ffprobe.Inspect(ctx, r.cfg.FFprobeBinary(), path)
	if err != nil {
		return 0, err
	}
	return result.DurationSeconds(), nil
}
