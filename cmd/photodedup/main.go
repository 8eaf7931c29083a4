// Command photodedup lists duplicate photos in a directory.
//
// It loads every supported image under the directory, runs the exact and
// perceptual passes and prints the clusters with the space that deleting
// the flagged copies would free. Nothing is deleted.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	photodedup "github.com/anatolykoptev/go-photodedup"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "photodedup:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	envErr := godotenv.Load()

	cfg, err := loadConfig(args, stderr)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if envErr != nil {
		slog.Debug("no .env file loaded", "error", envErr.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	photos, err := photodedup.LoadDir(ctx, cfg.Dir, photodedup.LoadOpts{MaxPhotos: cfg.MaxPhotos})
	if err != nil {
		return err
	}
	slog.Info("photos loaded", "dir", cfg.Dir, "count", len(photos))

	engine := &photodedup.Config{
		Threshold:      cfg.Threshold,
		Workers:        cfg.Workers,
		ContentHash:    cfg.ContentHash,
		SkipPerceptual: cfg.ExactOnly,
		OnProgress: func(p photodedup.Progress) {
			slog.Info("analysis progress", "stage", p.Stage.String(), "percent", p.Percent)
		},
	}

	report, err := engine.Aggregate(ctx, photos)
	if report == nil {
		return err
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		slog.Warn("analysis interrupted, showing completed passes", "stage", report.Stage.String())
	}

	printReport(stdout, report)
	return nil
}

// printReport writes clusters in detection order, then the totals.
func printReport(w io.Writer, r *photodedup.Report) {
	names := make(map[string]string, len(r.Photos))
	for _, p := range r.Photos {
		names[p.ID] = p.Name
	}
	anchors := make(map[string]string)
	for _, pass := range [][]photodedup.Annotation{r.Exact, r.Content, r.Perceptual} {
		for _, a := range pass {
			anchors[a.Group] = a.AnchorID
		}
	}

	groups := r.Groups()
	printed := make(map[string]bool)
	for _, d := range r.Duplicates {
		if printed[d.Group] {
			continue
		}
		printed[d.Group] = true
		fmt.Fprintf(w, "%s  keep %s\n", d.Group, names[anchors[d.Group]])
		for _, p := range groups[d.Group] {
			line := fmt.Sprintf("  duplicate %s (%s)", p.Name, photodedup.FormatBytes(p.SizeBytes))
			if p.SimilarityScore != nil {
				line += fmt.Sprintf(" similarity %.4f", *p.SimilarityScore)
			}
			fmt.Fprintln(w, line)
		}
	}

	for _, warning := range r.Warnings {
		fmt.Fprintln(w, "warning:", warning)
	}
	s := r.Stats()
	fmt.Fprintf(w, "%d photos, %d duplicates, %s reclaimable\n",
		s.TotalPhotos, s.Duplicates, photodedup.FormatBytes(s.SpaceSavingsBytes))
}
