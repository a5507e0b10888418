package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/enfoco/enfoco/internal/gateway"
)

var visionCmd = &cobra.Command{
	Use:   "vision [image]",
	Short: "Describe an image file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mimeType, _ := cmd.Flags().GetString("mime-type")

		info, err := os.Stat(args[0])
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}
		if info.Size() > gateway.MaxImageBytes {
			return fmt.Errorf("image %s is %d bytes, limit is %d", args[0], info.Size(), gateway.MaxImageBytes)
		}
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading image: %w", err)
		}

		description := newGateway(cfg, logger).AnalyzeVisual(cmd.Context(), data, mimeType)
		fmt.Fprintln(cmd.OutOrStdout(), description)
		return nil
	},
}

func init() {
	visionCmd.Flags().String("mime-type", "", "image MIME type (sniffed when empty)")
	rootCmd.AddCommand(visionCmd)
}
