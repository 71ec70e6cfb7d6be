package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vytor/learnearn/internal/logger"
	"github.com/vytor/learnearn/internal/repository"
	"github.com/vytor/learnearn/internal/services"
)

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Print a summary of the stored accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")

		cfg, log, err := setup()
		if err != nil {
			return err
		}
		store, err := openStore(cfg, log)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := logger.NewContext(cmd.Context(), log)
		repo := repository.NewAccountRepository(store, cfg.StorageKey)
		list := services.NewAccountService(repo).ListAccounts(ctx)
		return writeAccounts(cmd.OutOrStdout(), format, list)
	},
}

func init() {
	accountsCmd.Flags().StringP("output", "o", "table", "output format: table, json or yaml")
}

func writeAccounts(w io.Writer, format string, list []services.AccountSummary) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(list)
	case "table", "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "USERNAME\tLEVEL\tXP\tSTREAK\tLESSONS\tCELO\tTXS\tLAST LOGIN")
		for _, a := range list {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%.2f\t%d\t%s\n",
				a.Username, a.Level, a.XP, a.Streak, a.LessonsCompleted, a.Balance, a.Transactions,
				a.LastLogin.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q", format)
}
