// funnelwalk 是问卷漏斗的命令行调试工具：查看步骤顺序、计算 BMI、
// 检查追踪参数的透传，以及在进程内走完一次完整会话。
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
