package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"videoadmin/config"
	"videoadmin/ratelimit/infra"
)

func newStatsCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print cumulative gateway counters stored in Redis",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc, err := config.LoadRedis(*configPath)
			if err != nil {
				return err
			}
			rdb, err := connectRedis(cmd.Context(), rc)
			if err != nil {
				return err
			}
			defer func() { _ = rdb.Close() }()

			out := map[string]map[string]string{}
			for _, scope := range []string{"remote", "inbound"} {
				totals, err := infra.NewRedisStatsStore(rdb, infra.WithStatsPrefix(rc.StatsPrefix+":"+scope)).Totals(cmd.Context())
				if err != nil {
					return fmt.Errorf("read %s totals: %w", scope, err)
				}
				out[scope] = totals
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
