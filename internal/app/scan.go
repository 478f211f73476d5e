package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	striter "github.com/martingallagher/str-iter"
	"github.com/martingallagher/str-iter/internal/preview"
	"github.com/martingallagher/str-iter/internal/watch"
)

// runOnce scans stdin or the configured files a single time. Failing
// sources are logged and skipped; the first failure is returned after
// every source has been tried.
func (app *Application) runOnce() error {
	if len(app.opts.Files) == 0 {
		data, err := io.ReadAll(app.stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
		src, err := decode(data, app.cfg.Encoding)
		if err != nil {
			return err
		}
		return app.scanNamed("-", src)
	}

	var firstErr error
	for _, path := range app.opts.Files {
		if err := app.scanFile(path); err != nil {
			app.logger.Error("%v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// scanFile reads, decodes, and scans one file.
func (app *Application) scanFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	src, err := decode(data, app.cfg.Encoding)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return app.scanNamed(path, src)
}

// scanNamed scans one decoded source and logs a summary.
func (app *Application) scanNamed(name, src string) error {
	start := time.Now()
	n, err := app.scanSource(name, src)
	if err != nil {
		return err
	}
	app.logger.WithField("source", name).Info("scanned %d bytes, %d records in %s",
		len(src), n, time.Since(start).Round(time.Microsecond))
	return nil
}

// scanSource partitions one source according to the configured mode
// and writes a record per emitted value. It returns the number of
// records written.
func (app *Application) scanSource(name, src string) (int, error) {
	scan := uuid.NewString()
	count := 0
	emit := func(start, end int, verdict *bool, text string) error {
		rec := Record{
			Scan:    scan,
			File:    name,
			Mode:    app.cfg.Mode,
			Index:   count,
			Start:   start,
			End:     end,
			Verdict: verdict,
			Text:    text,
		}
		count++
		return app.out.Write(rec)
	}

	var scanErr error
	switch app.cfg.Mode {
	case "spans":
		it := striter.Spans(src, app.classify)
		if app.only != nil {
			it = it.Only(*app.only)
		}
		for it.Next() {
			v := it.Verdict()
			span := it.Span()
			if err := emit(span.Start, span.End, &v, it.Text()); err != nil {
				return count, err
			}
		}
		scanErr = it.Err()

	case "runes":
		it := striter.Runes(src, app.classify)
		if app.only != nil {
			it = it.Only(*app.only)
		}
		for it.Next() {
			v := it.Verdict()
			off := it.Offset()
			if err := emit(off, off+it.Size(), &v, it.Text()); err != nil {
				return count, err
			}
		}
		scanErr = it.Err()

	case "words":
		it := striter.Words(src)
		for it.Next() {
			span := it.Span()
			if err := emit(span.Start, span.End, nil, it.Text()); err != nil {
				return count, err
			}
		}
		scanErr = it.Err()

	case "graphemes":
		it := striter.Graphemes(src)
		for it.Next() {
			span := it.Span()
			if err := emit(span.Start, span.End, nil, it.Text()); err != nil {
				return count, err
			}
		}
		scanErr = it.Err()

	case "split":
		it := striter.Substrings(src, app.opts.Sep)
		if app.opts.All {
			it = it.All()
		}
		for it.Next() {
			span := it.Span()
			if err := emit(span.Start, span.End, nil, it.Text()); err != nil {
				return count, err
			}
		}
		scanErr = it.Err()

	default:
		return 0, fmt.Errorf("invalid mode %q", app.cfg.Mode)
	}

	if scanErr != nil {
		return count, fmt.Errorf("scanning %s: %w", name, scanErr)
	}
	if app.predErr != nil {
		if err := app.predErr(); err != nil {
			return count, fmt.Errorf("classifying %s: %w", name, err)
		}
	}
	return count, nil
}

// runWatch scans the configured files, then rescans each file as it
// changes until Close is called.
func (app *Application) runWatch() error {
	if len(app.opts.Files) == 0 {
		return errors.New("watch mode requires file arguments")
	}

	// Watch events carry absolute paths, so scan by absolute path from
	// the start and rescans name files the same way the initial pass did.
	files := make([]string, len(app.opts.Files))
	for i, path := range app.opts.Files {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		files[i] = abs
	}

	// Initial pass. Failures are logged but do not stop the watch; a
	// later write may fix the file.
	for _, path := range files {
		if err := app.scanFile(path); err != nil {
			app.logger.Error("%v", err)
		}
	}

	watcher, err := watch.Files(files, app.cfg.Debounce())
	if err != nil {
		return fmt.Errorf("watching files: %w", err)
	}
	app.mu.Lock()
	select {
	case <-app.done:
		// Close already ran and will never see this watcher.
		app.mu.Unlock()
		_ = watcher.Close()
		return nil
	default:
	}
	app.watcher = watcher
	app.mu.Unlock()

	app.logger.Info("watching %d files (debounce %s)", len(files), app.cfg.Debounce())

	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-watcher.Events():
			if !ok {
				return nil
			}
			if ev.Gone() {
				// The directory stays watched, so recreating the
				// file resumes rescans.
				app.logger.WithField("source", ev.Path).Warn("watched file is gone (%s)", ev.Op)
				continue
			}
			if err := app.scanFile(ev.Path); err != nil {
				app.logger.Error("%v", err)
			}

		case werr, ok := <-watcher.Errors():
			if !ok {
				return nil
			}
			app.logger.Warn("watch error: %v", werr)
		}
	}
}

// runPreview span-partitions a single file and opens the interactive
// viewer on the result.
func (app *Application) runPreview() error {
	if len(app.opts.Files) != 1 {
		return errors.New("preview mode requires exactly one file")
	}
	path := app.opts.Files[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	src, err := decode(data, app.cfg.Encoding)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}

	var segments []preview.Segment
	it := striter.Spans(src, app.classify)
	for it.Next() {
		span := it.Span()
		segments = append(segments, preview.Segment{
			Text:    it.Text(),
			Verdict: it.Verdict(),
			Start:   span.Start,
			End:     span.End,
		})
	}
	if err := it.Err(); err != nil {
		return fmt.Errorf("scanning %s: %w", path, err)
	}
	if app.predErr != nil {
		if err := app.predErr(); err != nil {
			return fmt.Errorf("classifying %s: %w", path, err)
		}
	}

	viewer, err := preview.New(segments, preview.Options{
		Title:        path,
		MatchColor:   app.cfg.Preview.MatchColor,
		RestColor:    app.cfg.Preview.RestColor,
		CurrentColor: app.cfg.Preview.CurrentColor,
	})
	if err != nil {
		return fmt.Errorf("opening preview: %w", err)
	}
	return viewer.Run()
}
