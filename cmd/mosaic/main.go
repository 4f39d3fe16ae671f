package main

import (
	"bytes"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-mosaic/engine"
	"github.com/nvr-ai/go-mosaic/images"
	"github.com/nvr-ai/go-mosaic/profiler"
	"github.com/nvr-ai/go-mosaic/script"
	"github.com/nvr-ai/go-mosaic/util"
)

// InputType represents the type of input being processed
type InputType int

const (
	InputImage InputType = iota
	InputDirectory
)

// InputConfig holds the input configuration
type InputConfig struct {
	Type InputType
	Path string
}

// options are the parsed command line flags.
type options struct {
	imagePath  string
	scriptPath string
	configPath string
	outPath    string
	format     string
	quality    int
	verbose    bool
	profile    bool
}

func main() {
	var opts options
	flag.StringVar(&opts.imagePath, "image", "", "Path to an image file or a directory of images (.jpg, .jpeg, .png, .bmp, .webp)")
	flag.StringVar(&opts.scriptPath, "script", "", "Path to a YAML gesture script to replay on every image")
	flag.StringVar(&opts.configPath, "config", "", "Path to a YAML engine config")
	flag.StringVar(&opts.outPath, "out", "", "Output file, or output directory when -image is a directory")
	flag.StringVar(&opts.format, "format", "", "Output format: png, jpeg, webp or bmp (default: from -out, else png)")
	flag.IntVar(&opts.quality, "quality", images.DefaultQuality, "JPEG/WebP quality; 100 selects lossless WebP")
	flag.BoolVar(&opts.verbose, "v", false, "Enable debug logging")
	flag.BoolVar(&opts.profile, "profile", false, "Report timings when done")
	flag.Parse()

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	engine.SetLogger(logger)

	if err := run(opts, logger); err != nil {
		log.Fatal(err)
	}
}

func run(opts options, logger *slog.Logger) error {
	input, err := validateInputFlags(opts.imagePath, opts.outPath)
	if err != nil {
		return err
	}

	cfg := engine.DefaultConfig()
	if opts.configPath != "" {
		if cfg, err = engine.LoadConfig(opts.configPath); err != nil {
			return err
		}
	}

	var sc *script.Script
	if opts.scriptPath != "" {
		if sc, err = script.Load(opts.scriptPath); err != nil {
			return err
		}
	}

	e, err := engine.New(cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	prof := profiler.New()
	if opts.profile {
		defer prof.Report(logger)
	}

	p := &processor{engine: e, script: sc, prof: prof, quality: opts.quality}

	switch input.Type {
	case InputImage:
		data, err := os.ReadFile(input.Path)
		if err != nil {
			return errors.Wrapf(err, "read %s", input.Path)
		}
		format, err := outputFormat(opts.format, opts.outPath)
		if err != nil {
			return err
		}
		return p.process(data, input.Path, opts.outPath, format)
	case InputDirectory:
		files, err := util.LoadDirectoryImageFiles(input.Path)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return errors.Errorf("no images found in %s", input.Path)
		}
		format, err := outputFormat(opts.format, "")
		if err != nil {
			return err
		}
		if err := os.MkdirAll(opts.outPath, 0o755); err != nil {
			return errors.Wrapf(err, "create %s", opts.outPath)
		}
		for _, f := range files {
			out := filepath.Join(opts.outPath, f.Name+format.Ext())
			if err := p.process(f.Data, f.Path, out, format); err != nil {
				return err
			}
		}
		logger.Info("batch done", slog.Int("images", len(files)), slog.String("out", opts.outPath))
	}
	return nil
}

// validateInputFlags checks the input and output paths and classifies the input.
func validateInputFlags(imagePath, outPath string) (InputConfig, error) {
	if imagePath == "" {
		return InputConfig{}, errors.New("-image is required")
	}
	if outPath == "" {
		return InputConfig{}, errors.New("-out is required")
	}
	info, err := os.Stat(imagePath)
	if err != nil {
		return InputConfig{}, errors.Wrapf(err, "stat %s", imagePath)
	}
	if info.IsDir() {
		return InputConfig{Type: InputDirectory, Path: imagePath}, nil
	}
	if !util.IsImagePath(imagePath) {
		return InputConfig{}, errors.Errorf("unsupported image file: %s", imagePath)
	}
	return InputConfig{Type: InputImage, Path: imagePath}, nil
}

// outputFormat resolves -format, falling back to the output extension and then PNG.
func outputFormat(flagValue, outPath string) (images.ImageFormat, error) {
	if flagValue != "" {
		return images.ParseFormat(flagValue)
	}
	if outPath != "" {
		if f, err := images.FormatFromPath(outPath); err == nil {
			return f, nil
		}
	}
	return images.FormatPNG, nil
}

// processor runs one image through the engine and writes the result.
type processor struct {
	engine  *engine.Engine
	script  *script.Script
	prof    *profiler.Profiler
	quality int
}

func (p *processor) process(data []byte, src, dst string, format images.ImageFormat) error {
	done := p.prof.StartOperation("decode")
	img, _, err := images.Decode(bytes.NewReader(data))
	done()
	if err != nil {
		return errors.Wrapf(err, "decode %s", src)
	}

	done = p.prof.StartOperation("edit")
	if err := p.engine.LoadImage(img); err != nil {
		return errors.Wrapf(err, "load %s", src)
	}
	if p.script != nil {
		if err := script.Run(p.engine, p.script); err != nil {
			return errors.Wrapf(err, "replay on %s", src)
		}
	}
	out, err := p.engine.ExportBitmap()
	done()
	if err != nil {
		return err
	}
	w, h := p.engine.Size()
	p.prof.RecordMetric("pixels", float64(w*h))

	done = p.prof.StartOperation("encode")
	defer done()
	var buf bytes.Buffer
	if err := images.Encode(&buf, out.NRGBA(), format, p.quality); err != nil {
		return err
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write %s", dst)
	}
	engine.Logger().Info("image written", slog.String("src", src), slog.String("dst", dst),
		slog.Int("width", w), slog.Int("height", h),
		slog.String("checksum", images.ComputeChecksum(out.NRGBA())))
	return nil
}
