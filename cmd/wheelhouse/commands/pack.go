// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"

	"github.com/wheelhouse-project/wheelhouse/cmd/wheelhouse/cli"
	"github.com/wheelhouse-project/wheelhouse/lib/digest"
	"github.com/wheelhouse-project/wheelhouse/lib/metadoc"
	"github.com/wheelhouse-project/wheelhouse/lib/tags"
	"github.com/wheelhouse-project/wheelhouse/lib/wheel"
)

type packParams struct {
	Name            string   `flag:"name" desc:"distribution name (required)"`
	Version         string   `flag:"version" desc:"distribution version (required)"`
	Tags            []string `flag:"tag" desc:"compatibility tag sets (default py3-none-any)"`
	Build           string   `flag:"build" desc:"build tag, e.g. 1 or 2b"`
	Metadata        []string `flag:"metadata,m" desc:"extra METADATA field as NAME=VALUE (repeatable)"`
	DescriptionFile string   `flag:"description-file" desc:"file whose contents become the metadata body"`
	Digest          string   `flag:"digest" desc:"RECORD digest algorithm (overrides config)"`
	Compression     string   `flag:"compression" desc:"member compression: deflate or store (overrides config)"`
	Output          string   `flag:"output,o" desc:"output directory" default:"."`
	Config          string   `flag:"config" desc:"config file path"`
}

func packCommand() *cli.Command {
	var params packParams

	return &cli.Command{
		Name:    "pack",
		Summary: "Build a wheel archive from a directory",
		Description: `Build a wheel archive from a directory tree.

Every file under the source directory becomes an archive member; the
dist-info directory (METADATA, WHEEL, RECORD) is generated. Building
is reproducible: member timestamps are fixed and member order is
deterministic, so the same input always yields the same bytes.`,
		Usage: "wheelhouse pack <dir> --name NAME --version VERSION [flags]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("pack", &params)
		},
		Run: func(args []string) error {
			return runPack(os.Stdout, &params, args)
		},
		Examples: []cli.Example{
			{
				Description: "Pure-Python wheel with defaults",
				Command:     "wheelhouse pack src/ --name demo --version 1.2.0",
			},
			{
				Description: "Platform wheel with metadata and a build number",
				Command:     "wheelhouse pack src/ --name demo --version 1.2.0 --tag cp311-abi3-manylinux_2_17_x86_64 --build 2 -m Summary='A demo'",
			},
		},
	}
}

func runPack(stdout io.Writer, params *packParams, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("pack: expected exactly one source directory, got %d arguments", len(args))
	}
	if params.Name == "" {
		return fmt.Errorf("pack: --name is required")
	}
	if params.Version == "" {
		return fmt.Errorf("pack: --version is required")
	}

	cfg, err := loadConfig(params.Config)
	if err != nil {
		return err
	}

	algName := params.Digest
	if algName == "" {
		algName = cfg.DigestAlgorithm
	}
	alg, err := digest.Default().Lookup(algName)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	compName := params.Compression
	if compName == "" {
		compName = cfg.Compression
	}
	compression, err := wheel.ParseCompression(compName)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}

	opts := []wheel.BuilderOption{
		wheel.WithDigestAlgorithm(alg),
		wheel.WithCompression(compression),
		wheel.WithGenerator(cfg.Generator),
	}

	if len(params.Tags) > 0 {
		var declared []tags.Tag
		for _, set := range params.Tags {
			expanded, err := tags.ParseTagSet(set)
			if err != nil {
				return fmt.Errorf("pack: --tag: %w", err)
			}
			declared = append(declared, expanded...)
		}
		opts = append(opts, wheel.WithTags(declared...))
	}

	if params.Build != "" {
		build, err := tags.ParseBuildTag(params.Build)
		if err != nil {
			return fmt.Errorf("pack: --build: %w", err)
		}
		opts = append(opts, wheel.WithBuild(*build))
	}

	for _, pair := range params.Metadata {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return fmt.Errorf("pack: --metadata %q: expected NAME=VALUE", pair)
		}
		opts = append(opts, wheel.WithMetadata(metadoc.Field{Name: name, Value: value}))
	}

	if params.DescriptionFile != "" {
		body, err := os.ReadFile(params.DescriptionFile)
		if err != nil {
			return fmt.Errorf("pack: reading description: %w", err)
		}
		opts = append(opts, wheel.WithDescription(string(body)))
	}

	builder, err := wheel.NewBuilder(params.Name, params.Version, opts...)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	if err := builder.AddFS("", os.DirFS(args[0])); err != nil {
		return fmt.Errorf("pack: staging %s: %w", args[0], err)
	}

	outPath := filepath.Join(params.Output, builder.Filename())
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("pack: %w", err)
	}
	if _, err := builder.WriteTo(f); err != nil {
		f.Close()
		os.Remove(outPath)
		return fmt.Errorf("pack: writing %s: %w", outPath, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("pack: closing %s: %w", outPath, err)
	}

	fmt.Fprintln(stdout, outPath)
	return nil
}
