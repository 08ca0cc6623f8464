// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// Package downloader fetches dataset archives over HTTP and extracts them.
//
// Every step is skipped if its output is already on disk, so rerunning a command
// resumes from the last completed step.
package downloader

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ml-data-kit/mldatakit/pkg/support/fsutil"
	"github.com/pkg/errors"
	"github.com/schollz/progressbar/v3"
	"k8s.io/klog/v2"
)

// Fetcher downloads files, optionally reporting progress.
type Fetcher struct {
	// Client used for requests. If nil, http.DefaultClient is used.
	Client *http.Client

	// UserAgent sent with requests, if not empty.
	UserAgent string

	// ShowProgress displays a progress bar on Output while downloading.
	ShowProgress bool

	// Output where progress is displayed. If nil, os.Stderr is used.
	Output io.Writer
}

// New creates a Fetcher with a progress bar.
func New() *Fetcher {
	return &Fetcher{ShowProgress: true}
}

func (f *Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f *Fetcher) output() io.Writer {
	if f.Output != nil {
		return f.Output
	}
	return os.Stderr
}

// progressReporter is an io.Writer that accounts for the bytes written and
// updates a progress bar with those counts. Each download owns its reporter.
type progressReporter struct {
	bar     *progressbar.ProgressBar
	start   time.Time
	written int64
}

func newProgressReporter(out io.Writer, description string, contentLength int64, showBar bool) *progressReporter {
	r := &progressReporter{start: time.Now()}
	if showBar {
		r.bar = progressbar.NewOptions64(contentLength,
			progressbar.OptionSetWriter(out),
			progressbar.OptionSetDescription(description),
			progressbar.OptionShowBytes(true),
			progressbar.OptionShowCount(),
			progressbar.OptionSetElapsedTime(true),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionUseANSICodes(true),
			progressbar.OptionSetTheme(progressbar.ThemeUnicode),
			progressbar.OptionOnCompletion(func() { _, _ = fmt.Fprintln(out) }),
		)
	}
	return r
}

// Write implements io.Writer.
func (r *progressReporter) Write(p []byte) (int, error) {
	r.written += int64(len(p))
	if r.bar != nil {
		_ = r.bar.Add64(int64(len(p)))
	}
	return len(p), nil
}

// finish closes the bar and returns the elapsed time and the throughput in bytes/second.
func (r *progressReporter) finish() (elapsed time.Duration, bytesPerSecond uint64) {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
	elapsed = time.Since(r.start)
	if seconds := elapsed.Seconds(); seconds > 0 {
		bytesPerSecond = uint64(float64(r.written) / seconds)
	}
	return
}

// Download file from url and save it at filePath, creating its directory if needed.
//
// The content is first written to filePath+".part" and renamed when complete, so an
// interrupted download never leaves a file that looks finished.
func (f *Fetcher) Download(url, filePath string) (size int64, err error) {
	if err = os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return 0, errors.Wrapf(err, "failed to create the directory for the path %q", filepath.Dir(filePath))
	}
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "failed creating request for %q", url)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}
	resp, err := f.client().Do(req)
	if err != nil {
		return 0, errors.Wrapf(err, "failed downloading %q", url)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return 0, errors.Errorf("failed downloading %q: bad status code %d (%s)", url, resp.StatusCode, resp.Status)
	}

	partPath := filePath + ".part"
	file, err := os.Create(partPath)
	if err != nil {
		return 0, errors.Wrapf(err, "failed creating file %q", partPath)
	}
	reporter := newProgressReporter(f.output(), filepath.Base(filePath), resp.ContentLength, f.ShowProgress)
	size, err = io.Copy(io.MultiWriter(file, reporter), resp.Body)
	elapsed, rate := reporter.finish()
	if err != nil {
		_ = file.Close()
		return 0, errors.Wrapf(err, "downloading %q to %q", url, partPath)
	}
	if err = file.Close(); err != nil {
		return 0, errors.Wrapf(err, "failed closing %q", partPath)
	}
	if err = os.Rename(partPath, filePath); err != nil {
		return 0, errors.Wrapf(err, "failed to move %q to %q", partPath, filePath)
	}
	klog.Infof("Downloaded %s to %q: %s in %s (%s/s)", url, filePath,
		humanize.IBytes(uint64(size)), elapsed.Round(time.Millisecond), humanize.IBytes(rate))
	return size, nil
}

// DownloadIfMissing downloads url to filePath, unless filePath already exists.
//
// If checkHash is provided, it checks that the file has the given sha256 hash or fails.
func (f *Fetcher) DownloadIfMissing(url, filePath, checkHash string) error {
	exists, err := fsutil.FileExists(filePath)
	if err != nil {
		return err
	}
	if !exists {
		klog.Infof("Downloading %s ...", url)
		if _, err = f.Download(url, filePath); err != nil {
			return err
		}
	}
	if checkHash == "" {
		return nil
	}
	return fsutil.ValidateChecksum(filePath, checkHash)
}

// EnsureDatasetPresent makes sure expectedDir exists: if it does, nothing is done (its
// contents are not verified). Otherwise, the archive is downloaded from archiveURL to
// archivePath (if not there yet) and extracted into extractDir, which must then
// contain expectedDir.
func (f *Fetcher) EnsureDatasetPresent(expectedDir, archiveURL, archivePath, extractDir string) error {
	present, err := fsutil.IsDir(expectedDir)
	if err != nil {
		return err
	}
	if present {
		klog.V(1).Infof("%q already present, skipping download", expectedDir)
		return nil
	}
	if err = f.DownloadIfMissing(archiveURL, archivePath, ""); err != nil {
		return err
	}
	klog.Infof("Extracting %s ...", archivePath)
	if err = Extract(archivePath, extractDir); err != nil {
		return err
	}
	present, err = fsutil.IsDir(expectedDir)
	if err != nil {
		return err
	}
	if !present {
		return errors.Errorf("downloaded from %q and extracted %q, but didn't get directory %q",
			archiveURL, archivePath, expectedDir)
	}
	return nil
}
