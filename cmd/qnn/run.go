package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/qnn/app"
)

var runFlags = map[string]string{
	"vectors_path": "vectors",
	"dataset_path": "dataset",
	"vector_limit": "limit",
	"sample":       "sample",
	"k":            "k",
	"batch_k":      "batch-k",
	"workers":      "workers",
	"cache_path":   "cache",
	"verify":       "verify",
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Embed, index and search the dataset questions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for key, name := range runFlags {
				if err := bindChanged(v, key, cmd.Flags().Lookup(name)); err != nil {
					return err
				}
			}
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			return app.Run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
	cmd.Flags().String("vectors", "", "path to fastText .vec word vectors")
	cmd.Flags().String("dataset", "", "path to SQuAD-style questions, relative to the data directory")
	cmd.Flags().Int("limit", 0, "read at most this many word vectors (0 reads all)")
	cmd.Flags().Int("sample", 0, "number of questions to report neighbours for")
	cmd.Flags().Int("k", 0, "neighbours per sampled question")
	cmd.Flags().Int("batch-k", 0, "neighbours per question in the full batch")
	cmd.Flags().Int("workers", 0, "batch query goroutines (0 uses GOMAXPROCS)")
	cmd.Flags().String("cache", "", "SQLite file caching question vectors")
	cmd.Flags().Bool("verify", false, "cross-check sampled results against the cache")
	return cmd
}
