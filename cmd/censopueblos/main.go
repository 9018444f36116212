// Command censopueblos builds the canonical CNPV-2018 municipality by people
// dataset and serves filtered indicator reports over HTTP or MCP.
package main

import (
	"os"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/camilodvr/censopueblos/pkg/version"
)

var logger zerolog.Logger

var rootCmd = &cobra.Command{
	Use:     "censopueblos",
	Short:   "CNPV-2018 indigenous peoples dataset toolkit",
	Long:    "Builds the canonical municipality-by-people dataset from the DANE census workbook and serves filtered diversity indicators and Excel reports.",
	Version: version.Version(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		logger = zlog.With().Str("service", "censopueblos").Logger()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
