// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// flowers102 downloads the Oxford Flowers 102 dataset and converts it to train, val and
// test containers, with images resized to 256x256.
//
// Without flags it works on the current directory, and writes train.h5, val.h5 and test.h5.
package main

import (
	"flag"
	"os"

	"github.com/ml-data-kit/mldatakit/datasets/flowers102"
	"github.com/ml-data-kit/mldatakit/pkg/config"
	"github.com/ml-data-kit/mldatakit/pkg/container"
	"github.com/ml-data-kit/mldatakit/pkg/downloader"
	"github.com/ml-data-kit/mldatakit/ui/commandline"
	"k8s.io/klog/v2"
)

var (
	flagSplits = flag.String("splits", "", "Comma-separated list of splits to convert (train, val, test). Defaults to all.")

	flagResizeWhileLoading = flag.Bool("resize_while_loading", false,
		"Resize each image right after decoding it, instead of after loading the whole split. Uses less memory.")

	flagLabelNames = flag.Bool("label_names", false, "Include a \"label_names\" dataset with the flower name of each image.")
	flagSummary    = flag.Bool("summary", false, "Print a summary table of the written containers.")
)

func main() {
	klog.InitFlags(nil)
	cfg, err := config.Load(".env")
	if err != nil {
		klog.Errorf("%+v", err)
		os.Exit(1)
	}
	cfg.RegisterFlags(flag.CommandLine)
	flag.Parse()

	if err = run(cfg); err != nil {
		klog.Errorf("%+v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.ResolveDirs(); err != nil {
		return err
	}
	fetcher := downloader.New()
	fetcher.ShowProgress = cfg.ShowProgress
	fetcher.UserAgent = cfg.UserAgent
	if err := flowers102.Download(fetcher, cfg.FlowersBaseURL, cfg.DataDir); err != nil {
		return err
	}
	md, err := flowers102.LoadMetadata(cfg.DataDir)
	if err != nil {
		return err
	}
	summaries, err := flowers102.Convert(md, flowers102.Options{
		DataDir:            cfg.DataDir,
		OutputDir:          cfg.OutputDir,
		Extension:          cfg.Extension(),
		Writer:             container.NewWriter(cfg.CompressionLevel),
		Splits:             commandline.ParseList(*flagSplits),
		ResizeWhileLoading: *flagResizeWhileLoading,
		WithLabelNames:     *flagLabelNames,
	})
	if err != nil {
		return err
	}
	if *flagSummary {
		commandline.ReportSplits(os.Stdout, "Oxford Flowers 102", summaries)
	}
	return nil
}
