package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pattyshack/gt/parseutil"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/pattyshack/shrike/allocator"
	"github.com/pattyshack/shrike/loader"
	"github.com/pattyshack/shrike/platform"
	"github.com/pattyshack/shrike/platform/arm"
	"github.com/pattyshack/shrike/platform/arm64"
)

func main() {
	printCmd := &cli.Command{
		Name:        "print",
		Description: "print the register requirement stream of each unit",
		Action:      printAct,
		Args:        cli.Args{},
		Flags:       platformFlags(),
	}

	checkCmd := &cli.Command{
		Name:        "check",
		Description: "build requirement streams and report problems only",
		Action:      checkAct,
		Args:        cli.Args{},
		Flags:       platformFlags(),
	}

	app := &cli.Command{
		Name:        "shrike",
		Description: "shrike builds register requirement streams for lowered units",
		Commands: []*cli.Command{
			printCmd,
			checkCmd,
		},
		Flags: []*cli.Flag{
			cli.HelpFlag,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func platformFlags() []*cli.Flag {
	return []*cli.Flag{
		cli.NewFlag("arch", "arm64", "target architecture (arm64 or arm)"),
		cli.NewFlag("os", "linux", "target operating system (linux or darwin)"),
	}
}

func selectPlatform(c *cli.Command) (platform.Platform, error) {
	osName := platform.OperatingSystemName(c.String("os"))
	switch osName {
	case platform.Linux, platform.Darwin:
	default:
		return nil, errors.New("unsupported os: %v", osName)
	}

	archName := platform.ArchitectureName(c.String("arch"))
	switch archName {
	case platform.Arm64:
		return arm64.NewPlatform(osName), nil
	case platform.Arm:
		return arm.NewPlatform(osName), nil
	}
	return nil, errors.New("unsupported architecture: %v", archName)
}

func printAct(c *cli.Command) error {
	return run(c, true)
}

func checkAct(c *cli.Command) error {
	return run(c, false)
}

func run(c *cli.Command, print bool) (err error) {
	targetPlatform, err := selectPlatform(c)
	if err != nil {
		return err
	}

	tr, ctx := tlog.SpawnFromContextAndWrap(
		context.Background(),
		"build requirement streams",
		"arch", targetPlatform.ArchitectureName(),
		"os", targetPlatform.OperatingSystemName())
	defer tr.Finish("err", &err)

	for _, fileName := range c.Args {
		err = processFile(ctx, targetPlatform, fileName, print)
		if err != nil {
			return errors.Wrap(err, "process %v", fileName)
		}
	}
	return nil
}

func processFile(
	ctx context.Context,
	targetPlatform platform.Platform,
	fileName string,
	print bool,
) error {
	content, err := os.ReadFile(fileName)
	if err != nil {
		return errors.Wrap(err, "read file")
	}

	emitter := &parseutil.Emitter{}
	units := loader.Load(
		fileName,
		content,
		targetPlatform.RegisterSet(),
		emitter)
	if emitter.HasErrors() {
		return reportErrors(emitter)
	}

	streams := allocator.ProcessAll(ctx, targetPlatform, units, emitter)

	if print {
		for _, unit := range units {
			stream, ok := streams[unit.Name]
			if !ok {
				continue
			}
			fmt.Print(allocator.FormatStream(
				targetPlatform.RegisterSet(),
				stream))
		}
	}

	if emitter.HasErrors() {
		return reportErrors(emitter)
	}
	return nil
}

func reportErrors(emitter *parseutil.Emitter) error {
	errs := emitter.Errors()
	for _, err := range errs {
		fmt.Fprintln(os.Stderr, "error:", err)
	}
	return errors.New("found %d errors", len(errs))
}
