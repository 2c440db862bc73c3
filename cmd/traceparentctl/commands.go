package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/ouyangw/tracekit/pkg/config/xconf"
	"github.com/ouyangw/tracekit/pkg/observability/xspan"
	"github.com/ouyangw/tracekit/pkg/propagation/xprop"
)

// exitError 表示需要非零退出码但已完成输出的场景。
// 命令内部已完成所有输出，main 只需设置退出码。
type exitError struct {
	code int
}

func (e *exitError) Error() string { return "" }

// usageError 表示参数错误，main 映射为退出码 2。
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

// 创建所有子命令。
func createCommands() []*cli.Command {
	return []*cli.Command{
		createParseCommand(),
		createNewCommand(),
		createConfigCommand(),
	}
}

// createParseCommand 创建 parse 子命令。
func createParseCommand() *cli.Command {
	return &cli.Command{
		Name:      "parse",
		Aliases:   []string{"p"},
		Usage:     "解析 traceparent header 并打印各字段",
		ArgsUsage: "<header>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return &usageError{msg: "parse 需要一个 header 参数"}
			}
			return cmdParse(os.Stdout, os.Stderr, cmd.Args().First())
		},
	}
}

func cmdParse(stdout, stderr io.Writer, header string) error {
	sc, ok := xprop.ParseTraceparent(header)
	if !ok {
		fmt.Fprintf(stderr, "畸形 traceparent: %q\n", header)
		return &exitError{code: 1}
	}

	fmt.Fprintf(stdout, "trace-id:    %s\n", sc.TraceID)
	fmt.Fprintf(stdout, "span-id:     %s\n", sc.SpanID)
	fmt.Fprintf(stdout, "trace-flags: %s\n", sc.TraceFlags)
	fmt.Fprintf(stdout, "sampled:     %t\n", sc.IsSampled())
	return nil
}

// createNewCommand 创建 new 子命令。
func createNewCommand() *cli.Command {
	return &cli.Command{
		Name:    "new",
		Aliases: []string{"n"},
		Usage:   "生成一个新的合法 traceparent header",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "sampled",
				Aliases: []string{"s"},
				Usage:   "置位采样标志（trace-flags = 01）",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return cmdNew(os.Stdout, cmd.Bool("sampled"))
		},
	}
}

func cmdNew(stdout io.Writer, sampled bool) error {
	sc := xspan.SpanContext{
		TraceID:    xspan.NewTraceID(),
		SpanID:     xspan.NewSpanID(),
		TraceFlags: xspan.FlagsNotSampled,
	}
	if sampled {
		sc = sc.WithSampled(true)
	}
	fmt.Fprintln(stdout, xprop.FormatTraceparent(sc))
	return nil
}

// createConfigCommand 创建 config 子命令。
func createConfigCommand() *cli.Command {
	return &cli.Command{
		Name:      "config",
		Aliases:   []string{"c"},
		Usage:     "校验追踪配置文件并打印生效值",
		ArgsUsage: "<path>",
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.Args().Len() != 1 {
				return &usageError{msg: "config 需要一个配置文件路径参数"}
			}
			return cmdConfig(os.Stdout, os.Stderr, cmd.Args().First())
		},
	}
}

func cmdConfig(stdout, stderr io.Writer, path string) error {
	cfg, err := xconf.Load(path)
	if err != nil {
		fmt.Fprintf(stderr, "配置非法: %v\n", err)
		return &exitError{code: 1}
	}

	policy := cfg.Sampler.Policy
	if policy == "" {
		policy = xconf.PolicyAlwaysOn
	}
	format := cfg.Propagation.Format
	if format == "" {
		format = xconf.PropagationW3C
	}

	fmt.Fprintf(stdout, "service_name:       %s\n", cfg.ServiceName)
	fmt.Fprintf(stdout, "sampler.policy:     %s\n", policy)
	if policy == xconf.PolicyRatio || policy == xconf.PolicyParentRatio {
		fmt.Fprintf(stdout, "sampler.ratio:      %g\n", cfg.Sampler.Ratio)
	}
	fmt.Fprintf(stdout, "propagation.format: %s\n", format)
	for _, p := range cfg.Filter.SkipPaths {
		fmt.Fprintf(stdout, "filter.skip_path:   %s\n", p)
	}
	return nil
}
