package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sync"
	"time"

	"github.com/wizardswiffle/clubsite"
	"github.com/wizardswiffle/clubsite/internal/assets"
	"github.com/wizardswiffle/clubsite/internal/fileutil"
	"github.com/wizardswiffle/clubsite/internal/hints"
	"github.com/wizardswiffle/clubsite/internal/logging"
)

// DefaultOutputDir receives assembled pages when no output is given.
const DefaultOutputDir = "dist"

// Sentinel errors for assemble.
var (
	ErrWritePage  = errors.New("failed to write page")
	ErrCopyAssets = errors.New("failed to copy site files")
	ErrIncomplete = errors.New("fragments failed to load")
	ErrPageFailed = errors.New("pages failed to assemble")
)

// PageToAssemble is one host page and where its result goes.
type PageToAssemble struct {
	PagePath   string
	OutputPath string
}

// AssembleResult holds the outcome of a single page.
type AssembleResult struct {
	PageToAssemble
	Result   *clubsite.Result
	Err      error
	Duration time.Duration
}

// Assembler is the part of clubsite.Site the batch needs.
type Assembler interface {
	Assemble(ctx context.Context, input clubsite.Input) (*clubsite.Result, error)
}

var _ Assembler = (*clubsite.Site)(nil)

// runAssemble writes assembled pages, plus the rest of the site, to the
// output directory.
func runAssemble(ctx context.Context, args []string, env *Environment) error {
	flags, pages, err := parseAssembleFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	ctx, cmd, err := newSite(ctx, env, flags.common, flags.site)
	if err != nil {
		return err
	}
	envCfg := loadEnvConfig(env.Getenv)

	outDir := resolveOutputDir(flags.output, envCfg)
	if len(pages) == 0 {
		pages = []string{cmd.cfg.Site.Page}
	}
	jobs, err := planPages(pages, outDir)
	if err != nil {
		return err
	}

	if !flags.noCopy {
		if err := copySiteFiles(ctx, cmd.site, cmd.cfg.Site.Root, outDir); err != nil {
			return err
		}
	}

	workers := flags.workers
	if workers == 0 {
		workers = envCfg.Workers
	}
	workers = clubsite.ResolveWorkers(workers)
	logging.FromContext(ctx).Debug("assembling", "pages", len(jobs), "workers", workers, "output", outDir)

	results := assembleBatch(ctx, cmd.site, cmd.manifest, jobs, workers)
	if err := ctx.Err(); err != nil {
		return err
	}
	return printAssembleResults(results, flags, env)
}

// resolveOutputDir determines the output directory.
// Priority: --output flag > CLUBSITE_OUTPUT > DefaultOutputDir.
func resolveOutputDir(flagOutput string, env *envConfig) string {
	if flagOutput != "" {
		return flagOutput
	}
	if env.OutputDir != "" {
		return env.OutputDir
	}
	return DefaultOutputDir
}

// planPages validates page paths and maps each under outDir. Duplicate
// pages are assembled once.
func planPages(pages []string, outDir string) ([]PageToAssemble, error) {
	seen := make(map[string]bool, len(pages))
	jobs := make([]PageToAssemble, 0, len(pages))
	for _, p := range pages {
		cleaned, err := assets.ValidateAssetPath(p)
		if err != nil {
			return nil, err
		}
		if seen[cleaned] {
			continue
		}
		seen[cleaned] = true
		jobs = append(jobs, PageToAssemble{
			PagePath:   cleaned,
			OutputPath: filepath.Join(outDir, filepath.FromSlash(cleaned)),
		})
	}
	return jobs, nil
}

// copySiteFiles mirrors the site's files into outDir so assembled pages
// find their stylesheets and images. HTTP sources are skipped.
func copySiteFiles(ctx context.Context, site *clubsite.Site, root, outDir string) error {
	fsys, ok := site.FS()
	if !ok {
		logging.FromContext(ctx).Warn("site has no local files, copying skipped")
		return nil
	}
	skip, err := outputWithinRoot(root, outDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCopyAssets, err)
	}

	copied := 0
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			// A previous run's output inside the root is not site content.
			if skip != "" && p == skip {
				return fs.SkipDir
			}
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		copied++
		return fileutil.WriteFileAtomic(filepath.Join(outDir, filepath.FromSlash(p)), data)
	})
	if err != nil {
		return fmt.Errorf("%w: %w%s", ErrCopyAssets, err, hints.ForOutputDirectory())
	}
	logging.FromContext(ctx).Debug("site files copied", "files", copied, "output", outDir)
	return nil
}

// outputWithinRoot returns outDir as a slash path relative to the site
// root when it lies inside it, or "" when it does not. An empty root is an
// embedded site and never contains the output.
func outputWithinRoot(root, outDir string) (string, error) {
	if root == "" {
		return "", nil
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	absOut, err := filepath.Abs(outDir)
	if err != nil {
		return "", err
	}
	rel, err := filepath.Rel(absRoot, absOut)
	if err != nil {
		return "", nil
	}
	rel = filepath.ToSlash(rel)
	if rel == "." {
		return "", fmt.Errorf("output directory %s is the site root", outDir)
	}
	if !fs.ValidPath(rel) {
		return "", nil
	}
	return rel, nil
}

// assembleBatch assembles pages concurrently with a bounded worker group.
// Results are returned in job order.
func assembleBatch(ctx context.Context, site Assembler, manifest []clubsite.FragmentRequest, jobs []PageToAssemble, workers int) []AssembleResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := workers
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]AssembleResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range queue {
				if err := ctx.Err(); err != nil {
					results[idx] = AssembleResult{PageToAssemble: jobs[idx], Err: err}
					continue
				}
				results[idx] = assemblePage(ctx, site, manifest, jobs[idx])
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// assemblePage assembles and writes a single page.
func assemblePage(ctx context.Context, site Assembler, manifest []clubsite.FragmentRequest, job PageToAssemble) AssembleResult {
	start := time.Now()
	result := AssembleResult{PageToAssemble: job}

	res, err := site.Assemble(ctx, clubsite.Input{PagePath: job.PagePath, Manifest: manifest})
	if err != nil {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}
	result.Result = res

	if err := fileutil.WriteFileAtomic(job.OutputPath, res.HTML); err != nil {
		result.Err = fmt.Errorf("%w: %s: %w", ErrWritePage, job.OutputPath, err)
	}
	result.Duration = time.Since(start)
	return result
}

// printAssembleResults reports each page and returns an error when a page
// failed, or when a fragment failed under --strict.
func printAssembleResults(results []AssembleResult, flags *assembleFlags, env *Environment) error {
	var pagesFailed, fragmentsFailed int
	var firstErr error

	for _, r := range results {
		if r.Err != nil {
			pagesFailed++
			if firstErr == nil {
				firstErr = r.Err
			}
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.PagePath, r.Err)
			continue
		}

		failed := r.Result.Failed()
		fragmentsFailed += len(failed)
		for _, o := range failed {
			fmt.Fprintf(env.Stderr, "  fragment %s (%s): %v\n", o.Request.ContainerID, o.Request.SourcePath, o.Err)
		}
		if r.Result.BindErr != nil {
			fmt.Fprintf(env.Stderr, "  data: %v\n", r.Result.BindErr)
		}

		if flags.common.quiet {
			continue
		}
		fulfilled := len(r.Result.Outcomes) - len(failed)
		if flags.common.verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%d/%d fragments, %d bound, %v)\n",
				r.PagePath, r.OutputPath, fulfilled, len(r.Result.Outcomes), r.Result.Bound, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "%s -> %s\n", r.PagePath, r.OutputPath)
		}
	}

	if !flags.common.quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d assembled, %d failed\n", len(results)-pagesFailed, pagesFailed)
	}

	switch {
	case pagesFailed == 1 && len(results) == 1:
		return firstErr
	case pagesFailed > 0:
		return fmt.Errorf("%w: %d of %d: %w", ErrPageFailed, pagesFailed, len(results), firstErr)
	case fragmentsFailed > 0 && flags.strict:
		return fmt.Errorf("%w: %d", ErrIncomplete, fragmentsFailed)
	}
	return nil
}
