package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"glyph-forge/internal/config"
	"glyph-forge/internal/dataset"
	"glyph-forge/internal/imgproc"
	"glyph-forge/internal/model"
	"glyph-forge/internal/pipeline"
	"glyph-forge/internal/preview"
	"glyph-forge/internal/submission"
	"glyph-forge/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "configs/alphabet.yaml", "Path to YAML config")
	trainImages := flag.String("train-images", "", "Override training image directory")
	trainLabels := flag.String("train-labels", "", "Override training label CSV")
	testImages := flag.String("test-images", "", "Override test image directory")
	resize := flag.Int("resize", 0, "Resize images to an NxN square")
	numClasses := flag.Int("num-classes", 0, "Number of classes for one-hot labels")
	epochs := flag.Int("epochs", 0, "Number of baseline training epochs")
	seed := flag.Int64("seed", 0, "PRNG seed")
	previewPath := flag.String("preview", "", "Write preview grids with this PNG path")
	submissionPath := flag.String("submission", "", "Write test predictions to this CSV")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		TrainImages:    *trainImages,
		TrainLabels:    *trainLabels,
		TestImages:     *testImages,
		ResizeDim:      *resize,
		NumClasses:     *numClasses,
		Epochs:         *epochs,
		Seed:           *seed,
		PreviewPath:    *previewPath,
		SubmissionPath: *submissionPath,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	log.SetLevel(cfg.Level())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	chain := imgproc.Chain{
		imgproc.UnsharpMask(imgproc.UnsharpParams{
			KernelSize: cfg.BlurKernel,
			Sigma:      cfg.BlurSigma,
			Amount:     cfg.UnsharpAmount,
		}),
		imgproc.Sharpen3x3,
	}

	paths, err := dataset.DiscoverImages(cfg.TrainImages)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{"root": cfg.TrainImages, "images": len(paths)}).Info("[Main] discovered training images")

	trainPaths, validPaths := dataset.Split(paths, cfg.ValidFraction, cfg.Seed)

	train, err := prepare(ctx, cfg, chain, "train", trainPaths, cfg.TrainLabels)
	if err != nil {
		return err
	}
	n, h, w := train.Images.Shape()
	fields := log.Fields{"n": n, "h": h, "w": w}
	if train.Labels != nil {
		_, c := train.Labels.Dims()
		fields["classes"] = c
	}
	log.WithFields(fields).Info("[Main] prepared training batch")

	var truth []int
	if train.Labels != nil {
		truth = dataset.ClassIDs(train.Labels)
	}
	if cfg.PreviewPath != "" {
		k := min(cfg.PreviewCount, n)
		panel := preview.Panel{Images: train.Images[:k]}
		if truth != nil {
			panel.Truth = truth[:k]
		}
		if err := showPreview(cfg, cfg.PreviewPath, panel); err != nil {
			return err
		}
	}

	if train.Labels == nil {
		return nil
	}

	x, err := train.Images.Matrix(1.0 / 255)
	if err != nil {
		return err
	}
	_, features := x.Dims()
	mdl := model.NewSoftmax(cfg.NumClasses, features, cfg.LearningRate, cfg.Seed)
	loss, err := trainer.Fit(ctx, mdl, x, truth, trainer.FitConfig{
		Epochs:    cfg.Epochs,
		BatchSize: cfg.BatchSize,
		LogEvery:  cfg.LogEvery,
		Seed:      cfg.Seed,
	})
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"loss":     loss,
		"accuracy": trainer.Accuracy(mdl, x, truth),
	}).Info("[Main] baseline trained")

	if len(validPaths) > 0 {
		valid, err := prepare(ctx, cfg, chain, "valid", validPaths, cfg.TrainLabels)
		if err != nil {
			return err
		}
		vx, err := valid.Images.Matrix(1.0 / 255)
		if err != nil {
			return err
		}
		validTruth := dataset.ClassIDs(valid.Labels)
		log.WithField("accuracy", trainer.Accuracy(mdl, vx, validTruth)).Info("[Main] validation")

		if cfg.PreviewPath != "" {
			panel := predictionPanel(cfg, mdl, valid.Images, mdl.Predict(vx))
			panel.Truth = validTruth[:len(panel.Images)]
			if err := showPreview(cfg, previewVariant(cfg.PreviewPath, "validation"), panel); err != nil {
				return err
			}
		}
	}

	if cfg.TestImages == "" {
		return nil
	}
	return predictTest(ctx, cfg, chain, mdl)
}

func predictTest(ctx context.Context, cfg *config.Config, chain imgproc.Chain, mdl model.Model) error {
	paths, err := dataset.DiscoverImages(cfg.TestImages)
	if err != nil {
		return err
	}
	test, err := prepare(ctx, cfg, chain, "test", paths, "")
	if err != nil {
		return err
	}
	x, err := test.Images.Matrix(1.0 / 255)
	if err != nil {
		return err
	}
	probs := mdl.Predict(x)

	if cfg.PreviewPath != "" {
		panel := predictionPanel(cfg, mdl, test.Images, probs)
		if err := showPreview(cfg, previewVariant(cfg.PreviewPath, "predictions"), panel); err != nil {
			return err
		}
	}

	if cfg.SubmissionPath == "" {
		return nil
	}
	if err := submission.WriteFile(cfg.SubmissionPath, test.Keys, submission.Argmax(probs)); err != nil {
		return err
	}
	log.WithFields(log.Fields{"path": cfg.SubmissionPath, "rows": len(test.Keys)}).Info("[Main] wrote submission")
	return nil
}

func prepare(ctx context.Context, cfg *config.Config, chain imgproc.Chain, name string, paths []string, labels string) (*pipeline.Result, error) {
	p, err := pipeline.New(pipeline.Options{
		ResizeDim:  cfg.ResizeDim,
		NumClasses: cfg.NumClasses,
		Transforms: chain,
		Progress:   &pipeline.LogProgress{Name: name, Every: cfg.LogEvery},
	})
	if err != nil {
		return nil, err
	}
	return p.Load(ctx, paths, labels)
}

func showPreview(cfg *config.Config, path string, panel preview.Panel) error {
	grid := preview.Grid{PerRow: cfg.PreviewPerRow}
	return preview.Show(preview.PNGSink{Path: path}, grid, panel)
}

// predictionPanel keeps the first PreviewCount images and their probability rows.
func predictionPanel(cfg *config.Config, mdl model.Model, images pipeline.Batch, probs *mat.Dense) preview.Panel {
	k := min(cfg.PreviewCount, len(images))
	return preview.Panel{
		Images:        images[:k],
		Probabilities: probs.Slice(0, k, 0, mdl.NumClasses()).(*mat.Dense),
	}
}

// previewVariant inserts "-name" before the extension of path.
func previewVariant(path, name string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + name + ext
}
