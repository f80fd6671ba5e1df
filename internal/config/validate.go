package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	if err := c.validateLoudnorm(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.InputsDir == "" {
		return errors.New("paths.inputs_dir must be set")
	}
	if c.Paths.TmpDir == "" {
		return errors.New("paths.tmp_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if c.Paths.TmpDir == c.Paths.OutputDir {
		return errors.New("paths.tmp_dir and paths.output_dir must differ")
	}
	return nil
}

func (c *Config) validateEncode() error {
	if c.Encode.Width <= 0 || c.Encode.Height <= 0 {
		return fmt.Errorf("encode.width and encode.height must be positive, got %dx%d", c.Encode.Width, c.Encode.Height)
	}
	if c.Encode.Framerate <= 0 {
		return fmt.Errorf("encode.framerate must be positive, got %d", c.Encode.Framerate)
	}
	if c.Encode.FontSize <= 0 {
		return fmt.Errorf("encode.font_size must be positive, got %d", c.Encode.FontSize)
	}
	if 2*c.Encode.FontSize >= c.Encode.Height {
		return fmt.Errorf("encode.font_size %d leaves no room for video at height %d", c.Encode.FontSize, c.Encode.Height)
	}
	return nil
}

func (c *Config) validateLoudnorm() error {
	// Ranges follow the ffmpeg loudnorm filter's accepted values.
	if c.Loudnorm.Integrated < -70 || c.Loudnorm.Integrated > -5 {
		return fmt.Errorf("loudnorm.integrated must be within [-70, -5] LUFS, got %g", c.Loudnorm.Integrated)
	}
	if c.Loudnorm.Range < 1 || c.Loudnorm.Range > 50 {
		return fmt.Errorf("loudnorm.range must be within [1, 50] LU, got %g", c.Loudnorm.Range)
	}
	if c.Loudnorm.TruePeak < -9 || c.Loudnorm.TruePeak > 0 {
		return fmt.Errorf("loudnorm.true_peak must be within [-9, 0] dBTP, got %g", c.Loudnorm.TruePeak)
	}
	return nil
}
