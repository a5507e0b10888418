package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var vaultCmd = &cobra.Command{
	Use:   "vault [query]",
	Short: "Search the vault file manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		cat, err := loadCatalog(cfg)
		if err != nil {
			return fmt.Errorf("loading catalog: %w", err)
		}
		vault, ok := cat.Section("vault")
		if !ok {
			return fmt.Errorf("catalog has no vault section")
		}

		res := newGateway(cfg, logger).VaultSearch(cmd.Context(), args[0], vault.Dataset())

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, res)
		}
		if res.Comment != "" {
			fmt.Fprintf(out, "%s\n\n", res.Comment)
		}
		if len(res.Results) == 0 {
			fmt.Fprintln(out, "No files matched.")
			return nil
		}
		for _, f := range res.Results {
			fmt.Fprintf(out, "  %v\t%v\t%v\n", f["name"], f["type"], f["size"])
		}
		return nil
	},
}

func init() {
	vaultCmd.Flags().Bool("json", false, "output results as JSON")
	rootCmd.AddCommand(vaultCmd)
}
