// Copyright 2026 The mldatakit Authors. SPDX-License-Identifier: Apache-2.0

// tinyimagenet downloads the Tiny ImageNet 200 dataset and converts its validation and
// train splits to containers.
//
// Without flags it works on the current directory, and writes val.h5 and train.h5.
package main

import (
	"flag"
	"os"

	"github.com/ml-data-kit/mldatakit/datasets/tinyimagenet"
	"github.com/ml-data-kit/mldatakit/pkg/config"
	"github.com/ml-data-kit/mldatakit/pkg/container"
	"github.com/ml-data-kit/mldatakit/pkg/downloader"
	"github.com/ml-data-kit/mldatakit/ui/commandline"
	"k8s.io/klog/v2"
)

var (
	flagSplits  = flag.String("splits", "", "Comma-separated list of splits to convert (val, train). Defaults to both.")
	flagSummary = flag.Bool("summary", false, "Print a summary table of the written containers.")
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
	if err := tinyimagenet.Download(fetcher, cfg.TinyImageNetURL, cfg.DataDir); err != nil {
		return err
	}
	summaries, err := tinyimagenet.Convert(tinyimagenet.Options{
		DataDir:   cfg.DataDir,
		OutputDir: cfg.OutputDir,
		Extension: cfg.Extension(),
		Writer:    container.NewWriter(cfg.CompressionLevel),
		Splits:    commandline.ParseList(*flagSplits),
	})
	if err != nil {
		return err
	}
	if *flagSummary {
		commandline.ReportSplits(os.Stdout, "Tiny ImageNet 200", summaries)
	}
	return nil
}
