// traceparentctl 是 W3C Trace Context 的命令行调试工具。
//
// 用法:
//
//	traceparentctl <命令> [命令参数]
//
// 命令:
//
//	parse <header>    解析 traceparent header 并打印各字段
//	new               生成一个新的合法 traceparent header
//	  --sampled, -s   置位采样标志（trace-flags = 01）
//	config <path>     校验追踪配置文件并打印生效值
//	help              显示帮助信息
//
// 退出码:
//
//	0: 成功（parse 命令: header 合法）
//	1: 失败（parse 命令: header 畸形；config 命令: 配置非法）
//	2: 参数错误（缺少参数、未知命令等）
//
// 示例:
//
//	traceparentctl parse 00-0af7651916cd43dd8448eb211c80319c-b7ad6b7169203331-01
//	traceparentctl new --sampled
//	traceparentctl config /etc/app/tracing.yaml
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// 版本信息（可通过 -ldflags 注入）。
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run(os.Args))
}

// createApp 创建 CLI 应用。
func createApp() *cli.Command {
	return &cli.Command{
		Name:           "traceparentctl",
		Usage:          "W3C Trace Context 调试工具",
		Version:        fmt.Sprintf("%s (commit: %s)", Version, GitCommit),
		Commands:       createCommands(),
		DefaultCommand: "help",
		// 设计决策: 禁止 urfave/cli 直接调用 os.Exit，
		// 由 run() 统一处理退出码映射。
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(os.Stderr, err)
			}
		},
	}
}

func run(args []string) int {
	app := createApp()

	if err := app.Run(context.Background(), args); err != nil {
		var exitErr *exitError
		if errors.As(err, &exitErr) {
			return exitErr.code
		}
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "参数错误: %v\n", usageErr)
			return 2
		}
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		return 1
	}

	return 0
}
