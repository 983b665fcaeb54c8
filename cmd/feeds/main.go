package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/LJTian/OpsBoard/internal/config"
	"github.com/LJTian/OpsBoard/internal/dashboard"
	"github.com/LJTian/OpsBoard/internal/dataset"
	"github.com/spf13/cobra"
)

const renderTimeout = 60 * time.Second

var (
	variant  string
	parallel bool
	width    int
	asJSON   bool
)

var rootCmd = &cobra.Command{
	Use:   "feeds",
	Short: "在终端里渲染一次运营看板",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "拉取所有栏目并输出",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cmd.Flags().Changed("variant") {
			cfg.Variant = variant
		}
		if cmd.Flags().Changed("parallel") {
			cfg.Parallel = parallel
		}

		board, err := dashboard.New(cfg)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), renderTimeout)
		defer cancel()
		page := board.Render(ctx)

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(page)
		}
		return dashboard.WriteText(cmd.OutOrStdout(), page, width)
	},
}

var datasetCmd = &cobra.Command{
	Use:   "dataset",
	Short: "输出固定的历届数据表",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboard.WriteDatasetText(cmd.OutOrStdout(), dataset.BuildSeries(dataset.Rows()))
	},
}

func init() {
	showCmd.Flags().StringVar(&variant, "variant", "feeds", "页面变体: feeds / briefing")
	showCmd.Flags().BoolVar(&parallel, "parallel", false, "并发拉取各栏目")
	showCmd.Flags().IntVar(&width, "width", 80, "输出宽度（按显示宽度截断标题）")
	showCmd.Flags().BoolVar(&asJSON, "json", false, "以 JSON 输出")

	rootCmd.AddCommand(showCmd, datasetCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("feeds: %v", err)
		os.Exit(1)
	}
}
